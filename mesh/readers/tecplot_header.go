package readers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/notargets/tec2vtk/converr"
	"github.com/notargets/tec2vtk/utils"
)

// VarLocation says whether a variable holds one value per node or per element
type VarLocation uint8

const (
	Nodal VarLocation = iota
	CellCentered
)

// TecplotHeader is the file and zone metadata preceding the data block
type TecplotHeader struct {
	Title        string
	Variables    []string
	Locations    []VarLocation // One per variable
	NodeCount    int
	ElementCount int
	ElementType  utils.ElementType
	ZoneLine     int // 1-based line of the ZONE keyword
}

var (
	reTitle     = regexp.MustCompile(`(?i)^TITLE\s*=\s*(.*)$`)
	reVariables = regexp.MustCompile(`(?i)^VARIABLES?\s*=\s*(.*)$`)
	reZone      = regexp.MustCompile(`(?i)^ZONE(?:\s+|$)(.*)$`)
	reQuoted    = regexp.MustCompile(`"([^"]*)"`)
	reWord      = regexp.MustCompile(`^\w+$`)

	reNodes       = regexp.MustCompile(`(?i)(?:^|[\s,])(?:NODES|N)\s*=\s*([^\s,]*)`)
	reElements    = regexp.MustCompile(`(?i)(?:^|[\s,])(?:ELEMENTS|E)\s*=\s*([^\s,]*)`)
	reZoneType    = regexp.MustCompile(`(?i)(?:^|[\s,])ZONETYPE\s*=\s*([^\s,]*)`)
	reElementType = regexp.MustCompile(`(?i)(?:^|[\s,])ET\s*=\s*([^\s,]*)`)
	rePacking     = regexp.MustCompile(`(?i)(?:^|[\s,])(?:F|DATAPACKING)\s*=\s*([^\s,]*)`)
	reVarLocation = regexp.MustCompile(`(?i)VARLOCATION\s*=\s*\(([^)]*)\)`)
	reLocEntry    = regexp.MustCompile(`\[([^\]]*)\]\s*=\s*(\w+)`)
)

// readTecplotHeader consumes the lines up to and including the zone header,
// leaving ts positioned at the first data line.
func readTecplotHeader(ts *tokenStream) (hdr *TecplotHeader, err error) {
	hdr = &TecplotHeader{}
	if err = readVariables(ts, hdr); err != nil {
		return nil, err
	}
	var zoneText string
	if zoneText, err = readZoneText(ts, hdr); err != nil {
		return nil, err
	}
	if err = parseZoneText(zoneText, hdr); err != nil {
		return nil, err
	}
	return hdr, nil
}

func readVariables(ts *tokenStream, hdr *TecplotHeader) error {
	for {
		text, lineNum, ok := ts.readLine()
		if !ok {
			if err := ts.Err(); err != nil {
				return &converr.IOError{Op: "read", Cause: err}
			}
			return &converr.MalformedHeaderError{Message: "no VARIABLES declaration found"}
		}
		line := strings.TrimSpace(text)
		switch {
		case line == "":
			continue
		case reTitle.MatchString(line):
			hdr.Title = strings.Trim(strings.TrimSpace(reTitle.FindStringSubmatch(line)[1]), `"`)
		case reZone.MatchString(line):
			return &converr.MalformedHeaderError{Line: lineNum, Message: "ZONE declared before VARIABLES"}
		case reVariables.MatchString(line):
			names := splitVariableNames(reVariables.FindStringSubmatch(line)[1])
			// Quoted name lists may continue on the following lines
			for {
				next, nextNum, ok := ts.readLine()
				if !ok {
					break
				}
				if !strings.HasPrefix(strings.TrimSpace(next), `"`) {
					ts.unreadLine(next, nextNum)
					break
				}
				names = append(names, splitVariableNames(next)...)
			}
			if len(names) == 0 {
				return &converr.MalformedHeaderError{Line: lineNum, Message: "VARIABLES declares no names"}
			}
			hdr.Variables = names
			return nil
		}
	}
}

// splitVariableNames splits a comma separated list, trimming blanks and
// quotes from each item, so "X", Y, "Total Pressure" gives three names.
// Lists without commas are taken as quoted names, or blank separated words
// when nothing is quoted.
func splitVariableNames(list string) (names []string) {
	if strings.Contains(list, ",") {
		for _, item := range splitOutsideQuotes(list, ',') {
			if name := strings.TrimSpace(strings.Trim(strings.TrimSpace(item), `"`)); name != "" {
				names = append(names, name)
			}
		}
		return
	}
	if quoted := reQuoted.FindAllStringSubmatch(list, -1); len(quoted) != 0 {
		for _, q := range quoted {
			if name := strings.TrimSpace(q[1]); name != "" {
				names = append(names, name)
			}
		}
		return
	}
	return strings.Fields(list)
}

// splitOutsideQuotes splits s at sep, except where sep sits inside "..."
func splitOutsideQuotes(s string, sep rune) (items []string) {
	var (
		inQuote bool
		start   int
	)
	for i, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == sep && !inQuote:
			items = append(items, s[start:i])
			start = i + 1
		}
	}
	return append(items, s[start:])
}

// readZoneText joins the ZONE line and its continuation lines. The zone
// header ends at the first line that starts with a number.
func readZoneText(ts *tokenStream, hdr *TecplotHeader) (string, error) {
	var parts []string
	for {
		text, lineNum, ok := ts.readLine()
		if !ok {
			break
		}
		line := strings.TrimSpace(text)
		if line == "" {
			continue
		}
		if hdr.ZoneLine == 0 {
			if m := reZone.FindStringSubmatch(line); m != nil {
				hdr.ZoneLine = lineNum
				parts = append(parts, m[1])
				continue
			}
			if startsWithNumber(line) {
				return "", &converr.MalformedHeaderError{Line: lineNum, Message: "data found before ZONE declaration"}
			}
			// Auxiliary records between VARIABLES and ZONE are not needed
			continue
		}
		if startsWithNumber(line) {
			ts.unreadLine(text, lineNum)
			break
		}
		parts = append(parts, line)
	}
	if err := ts.Err(); err != nil {
		return "", &converr.IOError{Op: "read", Cause: err}
	}
	if hdr.ZoneLine == 0 {
		return "", &converr.MalformedHeaderError{Message: "no ZONE declaration found"}
	}
	return strings.Join(parts, " "), nil
}

func startsWithNumber(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	_, err := parseTecplotFloat(fields[0])
	return err == nil
}

func parseZoneText(zone string, hdr *TecplotHeader) (err error) {
	var (
		line = hdr.ZoneLine
	)
	// Quoted values (T="...") may contain anything, including N= and E=.
	// Single word values such as ET="BRICK" keep their content.
	zone = reQuoted.ReplaceAllStringFunc(zone, func(q string) string {
		if inner := q[1 : len(q)-1]; reWord.MatchString(inner) {
			return inner
		}
		return `""`
	})

	if hdr.NodeCount, err = zoneCount(zone, reNodes, "N", line); err != nil {
		return
	}
	if hdr.ElementCount, err = zoneCount(zone, reElements, "E", line); err != nil {
		return
	}

	var etToken string
	if m := reZoneType.FindStringSubmatch(zone); m != nil {
		etToken = m[1]
	} else if m = reElementType.FindStringSubmatch(zone); m != nil {
		etToken = m[1]
	} else {
		return &converr.MalformedHeaderError{Line: line, Message: "zone declares neither ET= nor ZONETYPE="}
	}
	var ok bool
	if hdr.ElementType, ok = utils.ParseTecplotElementType(etToken); !ok {
		return &converr.UnsupportedElementTypeError{ElementType: etToken}
	}

	if m := rePacking.FindStringSubmatch(zone); m != nil {
		switch strings.ToUpper(m[1]) {
		case "FEBLOCK", "BLOCK":
		case "FEPOINT", "POINT":
			return &converr.MalformedHeaderError{Line: line,
				Message: fmt.Sprintf("data packing %s is not supported, only FEBLOCK", m[1])}
		default:
			return &converr.MalformedHeaderError{Line: line,
				Message: fmt.Sprintf("unknown data packing %q", m[1])}
		}
	}

	hdr.Locations = make([]VarLocation, len(hdr.Variables))
	if m := reVarLocation.FindStringSubmatch(zone); m != nil {
		if err = parseVarLocation(m[1], hdr); err != nil {
			return
		}
	}
	return
}

func zoneCount(zone string, re *regexp.Regexp, name string, line int) (int, error) {
	m := re.FindStringSubmatch(zone)
	if m == nil {
		return 0, &converr.MalformedHeaderError{Line: line, Message: fmt.Sprintf("zone is missing %s=", name)}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0, &converr.MalformedHeaderError{Line: line,
			Message: fmt.Sprintf("%s=%s is not a non-negative integer", name, m[1]), Cause: err}
	}
	return n, nil
}

// parseVarLocation handles entries like [1-3]=NODAL,[4,6-7]=CELLCENTERED
func parseVarLocation(spec string, hdr *TecplotHeader) error {
	var (
		line = hdr.ZoneLine
		nv   = len(hdr.Variables)
	)
	for _, entry := range reLocEntry.FindAllStringSubmatch(spec, -1) {
		var loc VarLocation
		switch strings.ToUpper(entry[2]) {
		case "NODAL":
			loc = Nodal
		case "CELLCENTERED":
			loc = CellCentered
		default:
			return &converr.MalformedHeaderError{Line: line,
				Message: fmt.Sprintf("unknown variable location %q", entry[2])}
		}
		for _, rng := range strings.Split(entry[1], ",") {
			first, last, err := parseIndexRange(rng)
			if err != nil || first < 1 || last > nv || first > last {
				return &converr.MalformedHeaderError{Line: line,
					Message: fmt.Sprintf("invalid VARLOCATION range [%s] for %d variables", rng, nv)}
			}
			for i := first; i <= last; i++ {
				hdr.Locations[i-1] = loc
			}
		}
	}
	return nil
}

func parseIndexRange(rng string) (first, last int, err error) {
	lo, hi, isRange := strings.Cut(strings.TrimSpace(rng), "-")
	if first, err = strconv.Atoi(strings.TrimSpace(lo)); err != nil {
		return
	}
	last = first
	if isRange {
		last, err = strconv.Atoi(strings.TrimSpace(hi))
	}
	return
}

package readers

import (
	"fmt"
	"strconv"

	"github.com/notargets/tec2vtk/converr"
)

// readConnectivity reads one line of 1-based node indices per element
func readConnectivity(ts *tokenStream, hdr *TecplotHeader, strict bool) (EtoV [][]int, err error) {
	var (
		K   = hdr.ElementCount
		npe = hdr.ElementType.GetNumNodes()
	)
	EtoV = make([][]int, K)
	for k := 0; k < K; k++ {
		fields, lineNum, ok := ts.nextFields()
		if !ok {
			if err = ts.Err(); err != nil {
				return nil, &converr.IOError{Op: "read", Cause: err}
			}
			return nil, &converr.TruncatedConnectivityError{Expected: K, Got: k}
		}
		if len(fields) < npe {
			return nil, &converr.TruncatedConnectivityError{Line: lineNum, Element: k,
				Expected: npe, Got: len(fields)}
		}
		if len(fields) > npe {
			return nil, &converr.IndexParseError{Line: lineNum,
				Message: fmt.Sprintf("element %d lists %d node indices, %s expects %d",
					k+1, len(fields), hdr.ElementType, npe)}
		}
		nodes := make([]int, npe)
		for j, tok := range fields {
			if nodes[j], err = strconv.Atoi(tok); err != nil {
				return nil, &converr.IndexParseError{Line: lineNum, Token: tok, Cause: err}
			}
			if strict && (nodes[j] < 1 || nodes[j] > hdr.NodeCount) {
				return nil, &converr.InvalidNodeIndexError{Line: lineNum, Element: k,
					Index: nodes[j], NodeCount: hdr.NodeCount}
			}
		}
		EtoV[k] = nodes
	}
	return EtoV, nil
}

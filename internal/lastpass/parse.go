package lastpass

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"unicode"
)

// multipleMatchesPrefix starts the first line lpass prints when a target
// matches more than one entry. lpass still exits 0 in that case.
const multipleMatchesPrefix = "Multiple matches"

// firstLine returns stdout up to (not including) the first newline.
func firstLine(stdout []byte) string {
	if i := bytes.IndexByte(stdout, '\n'); i >= 0 {
		return string(stdout[:i])
	}
	return string(stdout)
}

// isMultipleMatches reports whether stdout is lpass's ambiguous-match listing.
func isMultipleMatches(stdout []byte) bool {
	return strings.HasPrefix(firstLine(stdout), multipleMatchesPrefix)
}

// parseScalar returns the first line with all trailing Unicode whitespace
// removed.
// Later lines are ignored; lpass prints a single value for one field.
func parseScalar(stdout []byte) string {
	return strings.TrimRightFunc(firstLine(stdout), unicode.IsSpace)
}

// parsePairs splits every non-blank line on its first colon. Keys are
// lower-cased and both sides trimmed. Order and duplicates are preserved.
// A non-blank line without a colon is reported with its 1-based number.
func parsePairs(stdout []byte) ([]Pair, error) {
	var pairs []Pair

	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), len(stdout)+1)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d has no ':' separator", lineNo)
		}

		pairs = append(pairs, Pair{
			Key:   strings.ToLower(strings.TrimSpace(key)),
			Value: strings.TrimSpace(value),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return pairs, nil
}

// pairsToMap collapses pairs into a map; the last occurrence of a key wins.
func pairsToMap(pairs []Pair) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

// parseShow turns raw show output into an Entry according to opts.
func parseShow(target string, stdout []byte, opts LookupOptions) (Entry, error) {
	if isMultipleMatches(stdout) {
		return Entry{}, &LookupError{Kind: ErrAmbiguousMatch, Target: target}
	}

	if !opts.AsDict {
		return ScalarEntry(parseScalar(stdout)), nil
	}

	pairs, err := parsePairs(stdout)
	if err != nil {
		return Entry{}, &LookupError{Kind: ErrMalformedOutput, Target: target, Detail: err.Error()}
	}
	if opts.Pairs {
		if pairs == nil {
			pairs = []Pair{}
		}
		return PairsEntry(pairs), nil
	}
	return MapEntry(pairsToMap(pairs)), nil
}

package semtok

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Tokenized is the tokenizer's output for one document.
type Tokenized struct {
	Lines  []Line
	Legend Legend
}

// wireTokenized is the JSON form produced by the external tokenizer:
//
//	{"legend": {"1": ["Error", ...]}, "lines": [[[pos, len, moniker, style, warning], ...], ...]}
type wireTokenized struct {
	Legend map[string][]string `json:"legend"`
	Lines  [][][]json.Number   `json:"lines"`
}

// DecodeTokenized parses the tokenizer's JSON output.
func DecodeTokenized(data []byte) (*Tokenized, error) {
	var wire wireTokenized
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}

	out := &Tokenized{Lines: make([]Line, len(wire.Lines)), Legend: make(Legend, len(wire.Legend))}
	for key, names := range wire.Legend {
		m, err := ParseMoniker(key)
		if err != nil {
			return nil, fmt.Errorf("decode legend: %w", err)
		}
		out.Legend[m] = names
	}

	for lineIdx, rawLine := range wire.Lines {
		line := make(Line, 0, len(rawLine))
		for tokIdx, raw := range rawLine {
			tok, err := decodeToken(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d token %d: %w", lineIdx, tokIdx, err)
			}
			line = append(line, tok)
		}
		out.Lines[lineIdx] = line
	}
	return out, nil
}

func decodeToken(raw []json.Number) (Token, error) {
	if len(raw) < 4 {
		return Token{}, fmt.Errorf("expected at least 4 fields, got %d", len(raw))
	}
	fields := make([]int, len(raw))
	for i, n := range raw {
		v, err := strconv.Atoi(n.String())
		if err != nil {
			return Token{}, fmt.Errorf("field %d: %w", i, err)
		}
		fields[i] = v
	}
	tok := Token{
		Pos:   fields[0],
		Len:   fields[1],
		Lang:  Moniker(fields[2]),
		Style: Style(fields[3]),
	}
	if len(fields) > 4 {
		tok.Warning = fields[4] != 0
	}
	if tok.Pos < 0 || tok.Len <= 0 {
		return Token{}, fmt.Errorf("invalid span %d+%d", tok.Pos, tok.Len)
	}
	return tok, nil
}

// EncodeTokenized renders tokens in the tokenizer's JSON form.
func EncodeTokenized(t *Tokenized) ([]byte, error) {
	wire := wireTokenized{
		Legend: make(map[string][]string, len(t.Legend)),
		Lines:  make([][][]json.Number, len(t.Lines)),
	}
	for m, names := range t.Legend {
		wire.Legend[strconv.Itoa(int(m))] = names
	}
	for i, line := range t.Lines {
		row := make([][]json.Number, len(line))
		for j, tok := range line {
			warning := 0
			if tok.Warning {
				warning = 1
			}
			row[j] = []json.Number{
				num(tok.Pos), num(tok.Len), num(int(tok.Lang)), num(int(tok.Style)), num(warning),
			}
		}
		wire.Lines[i] = row
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode tokens: %w", err)
	}
	return data, nil
}

func num(v int) json.Number {
	return json.Number(strconv.Itoa(v))
}

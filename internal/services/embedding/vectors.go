package embedding

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mcoot/semanticguess/internal/model"
)

// ErrUnknownWord is returned for words missing from a vector table
var ErrUnknownWord = fmt.Errorf("%w: unknown word", model.ErrEmbeddingFailed)

// VectorTable serves embeddings from a pre-computed word-vector file
type VectorTable struct {
	vectors    map[string]model.Embedding
	dimensions int
}

// LoadVectorFile reads a word-vector text file
func LoadVectorFile(path string) (*VectorTable, error) {
	if path == "" {
		return nil, fmt.Errorf("vectors path is required")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := LoadVectors(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

// LoadVectors parses "word f1 f2 ..." lines. A leading word2vec header line
// ("<count> <dimensions>") is skipped.
func LoadVectors(r io.Reader) (*VectorTable, error) {
	table := &VectorTable{vectors: make(map[string]model.Embedding)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if lineNo == 1 && isHeader(fields) {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: no vector components", lineNo)
		}

		vector := make(model.Embedding, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vector[i] = v
		}

		if table.dimensions == 0 {
			table.dimensions = len(vector)
		} else if len(vector) != table.dimensions {
			return nil, fmt.Errorf("line %d: %w: %d != %d", lineNo, model.ErrVectorLengthMismatch, len(vector), table.dimensions)
		}

		table.vectors[fields[0]] = vector
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(table.vectors) == 0 {
		return nil, fmt.Errorf("no vectors found")
	}

	return table, nil
}

// Embed returns the stored vector for word, trying its lowercase form second
func (t *VectorTable) Embed(_ context.Context, word string) (model.Embedding, error) {
	if v, ok := t.vectors[word]; ok {
		return append(model.Embedding(nil), v...), nil
	}
	if v, ok := t.vectors[strings.ToLower(word)]; ok {
		return append(model.Embedding(nil), v...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWord, word)
}

// Len returns the number of words in the table
func (t *VectorTable) Len() int {
	return len(t.vectors)
}

// Dimensions returns the vector length
func (t *VectorTable) Dimensions() int {
	return t.dimensions
}

func isHeader(fields []string) bool {
	if len(fields) != 2 {
		return false
	}
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return false
		}
	}
	return true
}

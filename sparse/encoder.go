package sparse

import (
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/poiesic/minuted/core"
)

// Dim is the sparse index space shared by doc and query encoding.
const Dim = 1 << 18

// Tokenize splits text into lowercase word tokens at alphanumeric
// boundaries. Underscores count as word characters.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// tokenIndex hashes a token into the sparse index space. FNV-1a is
// stable across processes, which keeps stored doc vectors comparable
// with query vectors from any later run.
func tokenIndex(token string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(token))
	return h.Sum32() % Dim
}

// EncodeDoc encodes document text for indexing: term frequencies are
// aggregated per hashed index, valued 1 for a single occurrence and
// 1+ln(tf) beyond that, with indices sorted ascending. Empty text yields
// an empty vector.
func EncodeDoc(text string) core.SparseVector {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return core.SparseVector{}
	}

	counts := make(map[uint32]int, len(tokens))
	for _, t := range tokens {
		counts[tokenIndex(t)]++
	}

	indices := make([]uint32, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	values := make([]float32, len(indices))
	for i, idx := range indices {
		tf := counts[idx]
		if tf <= 1 {
			values[i] = 1.0
		} else {
			values[i] = float32(1.0 + math.Log(float64(tf)))
		}
	}

	return core.SparseVector{Indices: indices, Values: values}
}

// EncodeQuery encodes query text: one entry per distinct token in
// first-seen order, each valued 1.0. Empty text yields an empty vector.
func EncodeQuery(text string) core.SparseVector {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return core.SparseVector{}
	}

	seen := make(map[uint32]struct{}, len(tokens))
	var indices []uint32
	var values []float32
	for _, t := range tokens {
		idx := tokenIndex(t)
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
		values = append(values, 1.0)
	}

	return core.SparseVector{Indices: indices, Values: values}
}

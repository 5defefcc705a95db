package filter

import "fmt"

// Vocabulary maintains the bi-directional mapping between tokens and
// dense integer ids in [0, V).  Unlike a batch trainer, the filter
// sees tokens as they stream past, so ids are assigned on first
// sighting and never change afterwards.
type Vocabulary struct {
	tokens []string
	ids    map[string]int32
}

func NewVocabulary() *Vocabulary {
	return &Vocabulary{ids: make(map[string]int32)}
}

// Intern returns the id of token, assigning the next free id when the
// token has not been seen before.
func (v *Vocabulary) Intern(token string) int32 {
	if id, ok := v.ids[token]; ok {
		return id
	}
	id := int32(len(v.tokens))
	v.tokens = append(v.tokens, token)
	v.ids[token] = id
	return id
}

// Id returns the id of token, or a negative value when the token is
// not in the vocabulary.
func (v *Vocabulary) Id(token string) int32 {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return -1
}

// Token returns the token with the given id.
func (v *Vocabulary) Token(id int32) string {
	if int(id) < 0 || int(id) >= len(v.tokens) {
		panic(fmt.Sprintf("filter: id=%d out of range [0, %d)", id, len(v.tokens)))
	}
	return v.tokens[id]
}

// Len returns the vocabulary size V.
func (v *Vocabulary) Len() int {
	return len(v.tokens)
}

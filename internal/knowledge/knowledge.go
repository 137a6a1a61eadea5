package knowledge

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var defaultTopics []byte

var ErrInvalidBase = errors.New("invalid knowledge base")

var validate = newValidator()

// Topic is a subject area with its trigger keywords and canned reply.
type Topic struct {
	ID       string   `yaml:"id" json:"id" validate:"required"`
	Keywords []string `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,required,keyword"`
	Reply    string   `yaml:"reply" json:"reply" validate:"required"`
}

type document struct {
	Topics    []Topic  `yaml:"topics" validate:"required,min=1,unique=ID,dive"`
	Fallbacks []string `yaml:"fallbacks" validate:"required,min=1,dive,required"`
}

// Base is the read-only set of topics and fallback replies. It is never
// mutated after construction and can be shared between goroutines.
type Base struct {
	topics    []Topic
	fallbacks []string
	index     map[string]int
}

// Default returns the built-in college knowledge base.
func Default() (*Base, error) {
	return Parse(defaultTopics)
}

// Load reads a knowledge base from a YAML file.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML knowledge base document.
func Parse(data []byte) (*Base, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode failed: %v", ErrInvalidBase, err)
	}
	return New(doc.Topics, doc.Fallbacks)
}

// New builds a Base from topics in evaluation order and a fallback pool.
func New(topics []Topic, fallbacks []string) (*Base, error) {
	doc := document{Topics: cloneTopics(topics), Fallbacks: slices.Clone(fallbacks)}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase, err)
	}

	index := make(map[string]int, len(doc.Topics))
	for i, t := range doc.Topics {
		index[t.ID] = i
	}

	return &Base{topics: doc.Topics, fallbacks: doc.Fallbacks, index: index}, nil
}

// Topics returns a copy of the topics in evaluation order.
func (b *Base) Topics() []Topic {
	return cloneTopics(b.topics)
}

// Fallbacks returns a copy of the fallback pool.
func (b *Base) Fallbacks() []string {
	return slices.Clone(b.fallbacks)
}

// Topic looks up a topic by its identifier.
func (b *Base) Topic(id string) (Topic, bool) {
	i, ok := b.index[id]
	if !ok {
		return Topic{}, false
	}
	t := b.topics[i]
	t.Keywords = slices.Clone(t.Keywords)
	return t, true
}

func cloneTopics(src []Topic) []Topic {
	out := make([]Topic, len(src))
	for i, t := range src {
		t.Keywords = slices.Clone(t.Keywords)
		out[i] = t
	}
	return out
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// keywords are matched against normalized input, so they must already be
	// in normalized form themselves
	_ = v.RegisterValidation("keyword", func(fl validator.FieldLevel) bool {
		return isCanonical(fl.Field().String())
	})
	return v
}

func isCanonical(kw string) bool {
	prevSpace := true
	for _, r := range kw {
		switch {
		case r == ' ':
			if prevSpace {
				return false
			}
			prevSpace = true
		case unicode.IsUpper(r):
			return false
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '_':
			prevSpace = false
		default:
			return false
		}
	}
	return !prevSpace
}

package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTopicOrder(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	var ids []string
	for _, topic := range base.Topics() {
		ids = append(ids, topic.ID)
	}
	assert.Equal(t, []string{
		"admission", "requirements", "application", "courses", "engineering",
		"business", "fees", "scholarship", "facilities", "library", "hostel",
		"location", "contact", "hello", "help", "thanks",
	}, ids)
	assert.Len(t, base.Fallbacks(), 4)
}

func TestDefaultWellFormed(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	for _, topic := range base.Topics() {
		assert.NotEmpty(t, topic.Keywords, topic.ID)
		assert.NotEmpty(t, topic.Reply, topic.ID)
		for _, kw := range topic.Keywords {
			assert.True(t, isCanonical(kw), "%s: %q", topic.ID, kw)
		}
	}
	for _, fb := range base.Fallbacks() {
		assert.NotEmpty(t, fb)
	}
}

func TestDefaultReplies(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	hello, ok := base.Topic("hello")
	require.True(t, ok)
	assert.Equal(t, "Hello! 👋 Welcome to our college information system. How can I help you today?", hello.Reply)

	fees, ok := base.Topic("fees")
	require.True(t, ok)
	assert.Equal(t, []string{"fees", "cost", "price", "money", "tuition"}, fees.Keywords)
	assert.Contains(t, fees.Reply, "Fee structure (per year): 💰\n• Engineering")

	help, ok := base.Topic("help")
	require.True(t, ok)
	assert.Contains(t, help.Reply, "• Contact Information\n\nJust ask me anything!")

	_, ok = base.Topic("weather")
	assert.False(t, ok)
}

func TestBaseIsImmutable(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	topics := base.Topics()
	topics[0].Keywords[0] = "changed"
	topics[0].Reply = "changed"

	fallbacks := base.Fallbacks()
	fallbacks[0] = "changed"

	admission, _ := base.Topic("admission")
	assert.Equal(t, "admission", admission.Keywords[0])
	assert.NotEqual(t, "changed", admission.Reply)
	assert.NotEqual(t, "changed", base.Fallbacks()[0])
}

func TestNewValidation(t *testing.T) {
	ok := []Topic{{ID: "a", Keywords: []string{"alpha"}, Reply: "A"}}

	tests := []struct {
		name      string
		topics    []Topic
		fallbacks []string
	}{
		{"no topics", nil, []string{"x"}},
		{"missing id", []Topic{{Keywords: []string{"a"}, Reply: "A"}}, []string{"x"}},
		{"no keywords", []Topic{{ID: "a", Reply: "A"}}, []string{"x"}},
		{"empty keyword", []Topic{{ID: "a", Keywords: []string{""}, Reply: "A"}}, []string{"x"}},
		{"uppercase keyword", []Topic{{ID: "a", Keywords: []string{"Alpha"}, Reply: "A"}}, []string{"x"}},
		{"punctuated keyword", []Topic{{ID: "a", Keywords: []string{"al-pha"}, Reply: "A"}}, []string{"x"}},
		{"padded keyword", []Topic{{ID: "a", Keywords: []string{" alpha"}, Reply: "A"}}, []string{"x"}},
		{"double space keyword", []Topic{{ID: "a", Keywords: []string{"al  pha"}, Reply: "A"}}, []string{"x"}},
		{"empty reply", []Topic{{ID: "a", Keywords: []string{"alpha"}}}, []string{"x"}},
		{"duplicate id", append(ok, ok[0]), []string{"x"}},
		{"no fallbacks", ok, nil},
		{"empty fallback", ok, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.topics, tt.fallbacks)
			assert.ErrorIs(t, err, ErrInvalidBase)
		})
	}

	base, err := New([]Topic{{ID: "aid", Keywords: []string{"financial aid", "ö_1"}, Reply: "A"}}, []string{"x"})
	require.NoError(t, err)
	assert.Len(t, base.Topics(), 1)
}

func TestParse(t *testing.T) {
	base, err := Parse([]byte(`
topics:
  - id: greet
    keywords: [hi]
    reply: hey there
fallbacks: ["what?"]
`))
	require.NoError(t, err)
	topic, ok := base.Topic("greet")
	require.True(t, ok)
	assert.Equal(t, "hey there", topic.Reply)

	_, err = Parse([]byte("topics: [oops"))
	assert.ErrorIs(t, err, ErrInvalidBase)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("topics:\n  - id: a\n    keywords: [a]\n    reply: b\nfallbacks: [c]\n"), 0o600))

	base, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, base.Fallbacks())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidBase)
}

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_SyntheticCard(t *testing.T) {
	t.Parallel()

	text := "John Smith\nSenior Engineer\nExample Inc\njohn.smith@example.com\n+1 (555) 123-4567\n"

	got := Extract(text)
	assert.Equal(t, "John Smith", got.Name)
	assert.Equal(t, "Senior Engineer", got.Title)
	assert.Equal(t, "Example Inc", got.Company)
	assert.Equal(t, "john.smith@example.com", got.Email)
	assert.Equal(t, "+1 (555) 123-4567", got.Phone)
	assert.Empty(t, got.Website)
	assert.Empty(t, got.Address)
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	text := "John Smith\nSenior Engineer\nExample Inc\njohn.smith@example.com\n+1 (555) 123-4567"
	assert.Equal(t, Extract(text), Extract(text))
}

func TestExtract_SocialAndAddress(t *testing.T) {
	t.Parallel()

	text := `Priya Sharma
Marketing Director
Nimbus Technologies
221 Baker Street, London
Tel: 98765 43210
priya@nimbus.tech
www.nimbus.tech
linkedin.com/in/priyasharma
twitter.com/priya_s`

	got := Extract(text)
	assert.Equal(t, "Priya Sharma", got.Name)
	assert.Equal(t, "Marketing Director", got.Title)
	assert.Equal(t, "Nimbus Technologies", got.Company)
	assert.Equal(t, "221 Baker Street, London", got.Address)
	assert.Equal(t, "98765 43210", got.Phone)
	assert.Equal(t, "priya@nimbus.tech", got.Email)
	assert.Equal(t, "https://www.nimbus.tech", got.Website)
	assert.Equal(t, "priyasharma", got.LinkedIn)
	assert.Equal(t, "priya_s", got.Twitter)
	assert.Empty(t, got.Instagram)
}

func TestExtract_GreedyFill(t *testing.T) {
	t.Parallel()

	got := Extract("the blue bakery\nfresh bread daily\nhello@bluebakery.com")
	assert.Equal(t, "the blue bakery", got.Name)
	assert.Equal(t, "fresh bread daily", got.Company)
	assert.Equal(t, "hello@bluebakery.com", got.Email)
}

func TestExtract_ShortPhoneIgnored(t *testing.T) {
	t.Parallel()

	got := Extract("Jane Doe\nExt 4521")
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Empty(t, got.Phone)
}

func TestExtract_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, Extract("").IsEmpty())
	assert.True(t, Extract("  \n\n ").IsEmpty())
}

func TestSkipLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want bool
	}{
		{"Jo", true},
		{"jane@example.com", true},
		{"+1 555 123 4567", true},
		{"www.example.com", true},
		{"example.co.uk", true},
		{"linkedin.com/in/jane", true},
		{"12 Park Avenue", true},
		{"5th Floor, Tower B", true},
		{"This line is far too long to be a name or a company on any reasonable business card", true},
		{"Jane Doe", false},
		{"Senior Engineer", false},
		{"Example Inc.", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, skipLine(tt.line))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	got := classify([]string{"Jane Doe", "CEO", "Acme Group", "jane@acme.com"})
	require.Len(t, got, 3)

	assert.True(t, got[0].isPersonName)
	assert.False(t, got[0].isTitle)
	assert.True(t, got[1].isTitle)
	assert.True(t, got[2].isCompany)
	assert.False(t, got[2].isPersonName)
}

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantName  string
		wantEmail string
	}{
		{
			name:      "plain object",
			input:     `{"name": "John Smith", "email": "JOHN@EXAMPLE.COM"}`,
			wantName:  "John Smith",
			wantEmail: "john@example.com",
		},
		{
			name:      "json fence",
			input:     "```json\n{\"name\": \"John Smith\", \"email\": \"john@example.com\"}\n```",
			wantName:  "John Smith",
			wantEmail: "john@example.com",
		},
		{
			name:      "bare fence",
			input:     "```\n{\"name\": \"Jane Doe\"}\n```",
			wantName:  "Jane Doe",
			wantEmail: "",
		},
		{
			name:      "surrounding prose",
			input:     "Here is the contact:\n{\"name\": \"Jane Doe\", \"email\": \"jane@acme.com\"}\nLet me know if you need more.",
			wantName:  "Jane Doe",
			wantEmail: "jane@acme.com",
		},
		{
			name:      "nested object",
			input:     `{"contact": {"name": "Jane Doe", "email": "jane@acme.com"}}`,
			wantName:  "Jane Doe",
			wantEmail: "jane@acme.com",
		},
		{
			name:      "single quotes",
			input:     `{'name': 'Jane Doe', 'email': 'jane@acme.com'}`,
			wantName:  "Jane Doe",
			wantEmail: "jane@acme.com",
		},
		{
			name:      "trailing comma",
			input:     `{"name": "Jane Doe", "email": "jane@acme.com",}`,
			wantName:  "Jane Doe",
			wantEmail: "jane@acme.com",
		},
		{
			name:      "truncated reply recovered by field regex",
			input:     `{"name": "Jane Doe", "email": "jane@acme.com", "phone": "555-12`,
			wantName:  "Jane Doe",
			wantEmail: "jane@acme.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs, err := Contact(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, fs.Name)
			assert.Equal(t, tt.wantEmail, fs.Email)
		})
	}
}

func TestContact_Placeholders(t *testing.T) {
	t.Parallel()

	fs, err := Contact(`{"name": "John Smith", "title": "N/A", "company": "none", "phone": "null", "website": "-", "address": "undefined", "email": 42}`)
	require.NoError(t, err)

	assert.Equal(t, "John Smith", fs.Name)
	assert.Empty(t, fs.Title)
	assert.Empty(t, fs.Company)
	assert.Empty(t, fs.Phone)
	assert.Empty(t, fs.Website)
	assert.Empty(t, fs.Address)
	assert.Empty(t, fs.Email)
}

func TestContact_Normalizes(t *testing.T) {
	t.Parallel()

	fs, err := Contact(`{"name": "Acme Corp LLC", "company": "John Smith", "website": "example.com"}`)
	require.NoError(t, err)

	assert.Equal(t, "John Smith", fs.Name)
	assert.Equal(t, "Acme Corp LLC", fs.Company)
	assert.Equal(t, "https://example.com", fs.Website)
}

func TestContact_Unparseable(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"",
		"I could not read the card.",
		`{"name": "Jane Doe", "ema`,
	} {
		_, err := Contact(input)
		assert.ErrorIs(t, err, ErrUnparseable, input)
	}
}

func TestContacts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "array",
			input: `[{"name": "Jane Doe"}, {"name": "Bob Lee"}]`,
			want:  []string{"Jane Doe", "Bob Lee"},
		},
		{
			name:  "fenced array with prose",
			input: "Found two cards:\n```json\n[{\"name\": \"Jane Doe\"}, {\"name\": \"Bob Lee\"},]\n```",
			want:  []string{"Jane Doe", "Bob Lee"},
		},
		{
			name:  "single object",
			input: `{"name": "Jane Doe"}`,
			want:  []string{"Jane Doe"},
		},
		{
			name:  "contacts wrapper",
			input: `{"contacts": [{"name": "Jane Doe"}, {"name": "Bob Lee"}, "junk"]}`,
			want:  []string{"Jane Doe", "Bob Lee"},
		},
		{
			name:  "nested contact object",
			input: `{"contact": {"name": "Jane Doe", "email": "jane@acme.com"}}`,
			want:  []string{"Jane Doe"},
		},
		{
			name:  "object in prose",
			input: `The card says {"name": "Jane Doe"} and nothing else`,
			want:  []string{"Jane Doe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sets, err := Contacts(tt.input)
			require.NoError(t, err)
			require.Len(t, sets, len(tt.want))
			for i, name := range tt.want {
				assert.Equal(t, name, sets[i].Name)
			}
		})
	}
}

func TestContacts_Unparseable(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"no structured data here",
		`{"result": "ok"}`,
		`{"status": {"code": 200}}`,
	} {
		_, err := Contacts(input)
		assert.ErrorIs(t, err, ErrUnparseable, input)
	}
}

func TestIsList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"array", `[{"name":"A"},{"name":"B"}]`, true},
		{"fenced array", "```json\n[{\"name\":\"A\"}]\n```", true},
		{"object", `{"name":"A"}`, false},
		{"object with array value", `{"contacts":[{"name":"A"}]}`, false},
		{"prose then array", `Here you go: [{"name":"A"}]`, true},
		{"no json", "nothing here", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsList(tt.text))
		})
	}
}

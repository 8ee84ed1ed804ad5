package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go:\n{\"a\":{\"b\":2}}\nHope that helps {not json}", `{"a":{"b":2}}`},
		{"brace in string", `{"risk":"clause {7} is odd"} trailing }`, `{"risk":"clause {7} is odd"}`},
		{"escaped quote", `{"q":"say \"}\" now"}`, `{"q":"say \"}\" now"}`},
		{"nested with prose", `start { "a": { "b": 1 } } end`, `{ "a": { "b": 1 } }`},
		{"unbalanced falls back", `{"note": "unterminated} more }`, `{"note": "unterminated} more }`},
		{"no object", "sorry", "sorry"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanJSONText(tc.in))
		})
	}
}

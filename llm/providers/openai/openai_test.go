package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	a := New("sk-test", nil)
	assert.Equal(t, "openai", a.Name())
	assert.Equal(t, models, a.Models())

	gpt4o := a.Capabilities("gpt-4o")
	assert.True(t, gpt4o.Vision)
	assert.Equal(t, 4096, gpt4o.MaxTokens)
	assert.Equal(t, 0.005, gpt4o.InputCostPer1K)
	assert.Equal(t, 0.015, gpt4o.OutputCostPer1K)

	mini := a.Capabilities("gpt-4o-mini")
	assert.Equal(t, 16384, mini.MaxTokens)

	gpt4 := a.Capabilities("gpt-4")
	assert.False(t, gpt4.Vision)
	assert.Equal(t, 8192, gpt4.MaxTokens)

	// vision preview never gained tool support
	assert.False(t, a.Capabilities("gpt-4-vision-preview").FunctionCalling)
}

package model

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewButtonTruncatesLabel(t *testing.T) {
	long := strings.Repeat("ต้มยำกุ้ง", 5)
	b := NewButton(long)

	assert.Equal(t, MaxButtonLabel, utf8.RuneCountInString(b.Label))
	assert.True(t, strings.HasPrefix(long, b.Label))
	assert.Equal(t, long, b.Payload)
}

func TestNewButtonKeepsShortLabel(t *testing.T) {
	b := NewButton("แกงเขียวหวาน")
	assert.Equal(t, "แกงเขียวหวาน", b.Label)
	assert.Equal(t, "แกงเขียวหวาน", b.Payload)
}

func TestNewButtonsCapsAtThirteen(t *testing.T) {
	var texts []string
	for i := 0; i < 20; i++ {
		texts = append(texts, fmt.Sprintf("หมวด %d", i))
	}

	buttons := NewButtons(texts)
	require.Len(t, buttons, MaxButtons)
	assert.Equal(t, "หมวด 0", buttons[0].Payload)
	assert.Equal(t, "หมวด 12", buttons[12].Payload)
}

func TestDishFormat(t *testing.T) {
	d := Dish{Name: "ผัดไทย", Description: "เส้นจันท์ผัดซอสมะขาม"}
	assert.Equal(t, "ผัดไทย: เส้นจันท์ผัดซอสมะขาม", d.Format())
}

// Package catalog holds the recipe categories shown to users and the process-wide cache for them.
package catalog

// Categories maps category labels to filter tokens and remembers the order labels were first seen.
// A repeated label keeps its first position and takes the latest token.
type Categories struct {
	labels []string
	tokens map[string]string
}

// NewCategories returns an empty category set
func NewCategories() *Categories {
	return &Categories{tokens: make(map[string]string)}
}

// Add records a label/token pair
func (c *Categories) Add(label, token string) {
	if _, ok := c.tokens[label]; !ok {
		c.labels = append(c.labels, label)
	}
	c.tokens[label] = token
}

// Labels returns the labels in insertion order. The slice must not be modified.
func (c *Categories) Labels() []string {
	if c == nil {
		return nil
	}
	return c.labels
}

// Token returns the filter token for label
func (c *Categories) Token(label string) (string, bool) {
	if c == nil {
		return "", false
	}
	token, ok := c.tokens[label]
	return token, ok
}

// Len returns the number of distinct labels
func (c *Categories) Len() int {
	if c == nil {
		return 0
	}
	return len(c.labels)
}

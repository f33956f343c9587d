package scraper

import (
	"fmt"
	"io"
	"strings"

	"chefbot/src/catalog"
	"chefbot/src/model"

	"golang.org/x/net/html"
)

// CSS classes used by the recipe site markup
const (
	categorySelectClass = "chakra-select"
	dishCardClass       = "css-1jdytyu"
	dishNameClass       = "css-f18oi5"
	dishDescClass       = "css-g8k6ox"
)

// ParseCategories reads the category <option>s of the recipe filter <select>.
// Options without a value (the "all" placeholder) or without a label are skipped; labels are trimmed.
func ParseCategories(r io.Reader) (*catalog.Categories, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse categories page: %w", err)
	}

	sel := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "select") && hasClass(n, categorySelectClass)
	})
	if sel == nil {
		return nil, fmt.Errorf("category select not found")
	}

	categories := catalog.NewCategories()
	for _, opt := range findAll(sel, func(n *html.Node) bool { return isElement(n, "option") }) {
		value, _ := attr(opt, "value")
		label := strings.TrimSpace(textContent(opt))
		if value == "" || label == "" {
			continue
		}
		categories.Add(label, value)
	}
	return categories, nil
}

// ParseDishes reads the dish cards of a category listing page in document order.
// The second return value counts cards that lacked a name or description.
func ParseDishes(r io.Reader) ([]model.Dish, int, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse dishes page: %w", err)
	}

	var dishes []model.Dish
	skipped := 0
	for _, card := range findAll(doc, func(n *html.Node) bool {
		return isElement(n, "div") && hasClass(n, dishCardClass)
	}) {
		name := findFirst(card, func(n *html.Node) bool { return isElement(n, "div") && hasClass(n, dishNameClass) })
		desc := findFirst(card, func(n *html.Node) bool { return isElement(n, "div") && hasClass(n, dishDescClass) })
		if name == nil || desc == nil {
			skipped++
			continue
		}
		dishes = append(dishes, model.Dish{
			Name:        textContent(name),
			Description: strings.TrimSpace(textContent(desc)),
		})
	}
	return dishes, skipped, nil
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll does not descend into matched nodes
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if match(c) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

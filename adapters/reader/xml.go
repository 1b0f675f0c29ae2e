package reader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"smartanalyzer/domain/dataset"

	"github.com/antchfx/xmlquery"
)

// parseXML turns each element matched by opts.XMLRowPath into a row. A row's
// attributes and leaf child elements become columns in first-seen order.
func parseXML(name string, data []byte, opts Options) (*dataset.Dataset, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	nodes, err := xmlquery.QueryAll(doc, opts.XMLRowPath)
	if err != nil {
		return nil, fmt.Errorf("invalid row path %q: %w", opts.XMLRowPath, err)
	}
	if len(nodes) == 0 {
		return nil, errors.New("xpath does not return any nodes. Be sure row level nodes are in xpath")
	}

	keys := newKeyOrder()
	rows := make([]map[string]any, 0, len(nodes))
	for _, node := range nodes {
		if node.Type != xmlquery.ElementNode {
			continue
		}
		row := make(map[string]any)
		for _, attr := range node.Attr {
			if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
				continue
			}
			key := qualifiedName(attr.Name.Space, attr.Name.Local)
			keys.add(key)
			row[key] = attr.Value
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			switch child.Type {
			case xmlquery.ElementNode:
				key := qualifiedName(child.Prefix, child.Data)
				keys.add(key)
				if _, dup := row[key]; !dup {
					row[key] = elementText(child)
				}
			case xmlquery.TextNode, xmlquery.CharDataNode:
				if text := strings.TrimSpace(child.Data); text != "" {
					keys.add(node.Data)
					row[node.Data] = text
				}
			}
		}
		rows = append(rows, row)
	}

	return recordsToDataset(name, keys.keys, rows, func(string) dataset.InferOptions {
		return dataset.TextOptions()
	})
}

// elementText returns the trimmed text of a leaf element, or nil when empty
func elementText(n *xmlquery.Node) any {
	text := strings.TrimSpace(n.InnerText())
	if text == "" {
		return nil
	}
	return text
}

func qualifiedName(prefix, local string) string {
	if prefix == "" || prefix == "xmlns" {
		return local
	}
	return prefix + ":" + local
}

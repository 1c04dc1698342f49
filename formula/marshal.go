package formula

// ToMap converts a syntax tree to plain Go maps and slices for encoding as
// JSON or YAML. Every node becomes a map with a "node" key naming its type.
func ToMap(n Node) map[string]any {
	switch x := n.(type) {
	case *Literal:
		return map[string]any{
			"node":  "literal",
			"kind":  x.Value.Kind().String(),
			"value": x.Value.Native(),
		}

	case *Reference:
		return map[string]any{"node": "reference", "path": x.Path}

	case *Infix:
		return map[string]any{
			"node":  "infix",
			"op":    x.Op,
			"left":  ToMap(x.Left),
			"right": ToMap(x.Right),
		}

	case *Prefix:
		return map[string]any{"node": "prefix", "op": x.Op, "operand": ToMap(x.Operand)}

	case *Call:
		return map[string]any{"node": "call", "name": x.Name, "args": toMaps(x.Args)}

	case *ArrayLit:
		return map[string]any{"node": "array", "elements": toMaps(x.Elements)}

	case *Lambda:
		params := make([]any, len(x.Params))
		for i, p := range x.Params {
			params[i] = p
		}

		return map[string]any{"node": "lambda", "params": params, "body": ToMap(x.Body)}

	default:
		return nil
	}
}

func toMaps(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = ToMap(n)
	}

	return out
}

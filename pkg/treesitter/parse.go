package treesitter

import (
	"strings"

	"github.com/pkg/errors"
)

// Call is one call expression found in a source file: the textual callee
// path (e.g. "os.system", "subprocess.run") and its one-based line number.
type Call struct {
	Callee string
	Line   int
	// Constructor is set for new-expressions (e.g. "new Function").
	Constructor bool
}

// grammarNames maps the evaluator's language identifiers to grammar library
// names. Bash is handled by structural matching, not AST rules, so it is
// deliberately absent.
var grammarNames = map[string]string{
	"python":     "python",
	"typescript": "typescript",
	"javascript": "javascript",
	"go":         "go",
}

// callNodeTypes maps a language to the node type of its call expressions and
// the field holding the callee.
var callNodeTypes = map[string]struct {
	callType     string
	newType      string
	functionName string
}{
	"python":     {callType: "call", functionName: "function"},
	"typescript": {callType: "call_expression", newType: "new_expression", functionName: "function"},
	"javascript": {callType: "call_expression", newType: "new_expression", functionName: "function"},
	"go":         {callType: "call_expression", functionName: "function"},
}

// SupportsLanguage reports whether AST matching exists for a language at all,
// regardless of whether its grammar is installed.
func SupportsLanguage(language string) bool {
	_, ok := grammarNames[language]
	return ok
}

// GrammarInstalled reports whether the grammar for a language can be loaded
// on this machine.
func GrammarInstalled(language string) bool {
	name, ok := grammarNames[language]
	if !ok {
		return false
	}
	return IsGrammarAvailable(name)
}

// ExtractCalls parses source text and returns every call expression with its
// callee path. It returns ErrUnavailable (wrapped) when the runtime or the
// grammar is missing, and a parse error when the tree contains syntax errors,
// so callers can degrade to line-based matching.
func ExtractCalls(language string, content []byte) ([]Call, error) {
	grammarName, ok := grammarNames[language]
	if !ok {
		return nil, errors.Wrapf(ErrUnavailable, "no grammar mapping for language %q", language)
	}

	lang, err := LoadGrammar(grammarName)
	if err != nil {
		return nil, err
	}

	parser := ParserNew()
	defer ParserDelete(parser)

	if !ParserSetLanguage(parser, lang) {
		return nil, errors.Errorf("grammar %q rejected by parser (ABI mismatch)", grammarName)
	}

	tree := ParserParseString(parser, content)
	if tree == 0 {
		return nil, errors.New("parse produced no tree")
	}
	defer TreeDelete(tree)

	root := TreeRootNode(tree)
	if NodeHasError(root) {
		return nil, errors.New("source contains syntax errors")
	}

	shapes := callNodeTypes[language]
	var calls []Call
	walk(root, func(node TSNode) {
		nodeType := NodeType(node)
		switch nodeType {
		case shapes.callType:
			if callee := calleeText(node, shapes.functionName, content); callee != "" {
				calls = append(calls, Call{
					Callee: callee,
					Line:   int(NodeStartPoint(node).Row) + 1,
				})
			}
		case shapes.newType:
			if shapes.newType == "" {
				return
			}
			ctor := NodeChildByFieldName(node, "constructor")
			if NodeIsNull(ctor) {
				return
			}
			calls = append(calls, Call{
				Callee:      nodeText(ctor, content),
				Line:        int(NodeStartPoint(node).Row) + 1,
				Constructor: true,
			})
		}
	})

	return calls, nil
}

func walk(node TSNode, visit func(TSNode)) {
	if NodeIsNull(node) {
		return
	}
	visit(node)
	count := NodeChildCount(node)
	for i := uint32(0); i < count; i++ {
		walk(NodeChild(node, i), visit)
	}
}

func calleeText(node TSNode, field string, content []byte) string {
	fn := NodeChildByFieldName(node, field)
	if NodeIsNull(fn) {
		return ""
	}
	return nodeText(fn, content)
}

func nodeText(node TSNode, content []byte) string {
	start, end := NodeStartByte(node), NodeEndByte(node)
	if int(end) > len(content) || start >= end {
		return ""
	}
	text := string(content[start:end])
	// Collapse whitespace so "os .system" still matches a dotted path.
	return strings.Join(strings.Fields(text), "")
}

// Package treesitter provides cgo-free tree-sitter bindings via purego,
// scoped to what rule matching needs: parsing a source file and walking its
// call expressions. The runtime library and per-language grammars are loaded
// from trusted system directories at first use; when they are absent the
// engine degrades to structural and regex matching.
package treesitter

import (
	"os"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

// TSParser is a handle to a tree-sitter parser.
type TSParser uintptr

// TSTree is a handle to a parsed syntax tree.
type TSTree uintptr

// TSLanguage is a handle to a tree-sitter language grammar.
type TSLanguage uintptr

// TSNode represents a node in the syntax tree.
type TSNode struct {
	Context [4]uint32
	ID      uintptr
	Tree    uintptr
}

// TSPoint is a zero-based position in source code.
type TSPoint struct {
	Row    uint32
	Column uint32
}

var (
	tsParserNew         func() TSParser
	tsParserDelete      func(TSParser)
	tsParserSetLanguage func(TSParser, TSLanguage) bool
	tsParserParseString func(TSParser, TSTree, *byte, uint32) TSTree

	tsTreeDelete   func(TSTree)
	tsTreeRootNode func(TSTree) TSNode

	tsNodeType             func(TSNode) *byte
	tsNodeStartByte        func(TSNode) uint32
	tsNodeEndByte          func(TSNode) uint32
	tsNodeStartPoint       func(TSNode) TSPoint
	tsNodeChildCount       func(TSNode) uint32
	tsNodeChild            func(TSNode, uint32) TSNode
	tsNodeIsNull           func(TSNode) bool
	tsNodeHasError         func(TSNode) bool
	tsNodeChildByFieldName func(TSNode, *byte, uint32) TSNode
)

var (
	initOnce  sync.Once
	initErr   error
	libHandle uintptr
)

// ErrUnavailable reports that the tree-sitter runtime or a grammar is not
// installed. Callers treat it as a signal to fall back, not as a failure.
var ErrUnavailable = errors.New("tree-sitter unavailable")

// Initialize loads libtree-sitter via purego. Called once; subsequent calls
// return the first result.
func Initialize() error {
	initOnce.Do(func() {
		initErr = loadRuntime()
	})
	return initErr
}

func loadRuntime() error {
	libPath := findRuntimeLibrary()
	if libPath == "" {
		return errors.Wrap(ErrUnavailable, "libtree-sitter not found")
	}

	var err error
	libHandle, err = purego.Dlopen(libPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return errors.Wrapf(err, "failed to load %s", libPath)
	}

	registerFunctions()
	return nil
}

func registerFunctions() {
	purego.RegisterLibFunc(&tsParserNew, libHandle, "ts_parser_new")
	purego.RegisterLibFunc(&tsParserDelete, libHandle, "ts_parser_delete")
	purego.RegisterLibFunc(&tsParserSetLanguage, libHandle, "ts_parser_set_language")
	purego.RegisterLibFunc(&tsParserParseString, libHandle, "ts_parser_parse_string")

	purego.RegisterLibFunc(&tsTreeDelete, libHandle, "ts_tree_delete")
	purego.RegisterLibFunc(&tsTreeRootNode, libHandle, "ts_tree_root_node")

	purego.RegisterLibFunc(&tsNodeType, libHandle, "ts_node_type")
	purego.RegisterLibFunc(&tsNodeStartByte, libHandle, "ts_node_start_byte")
	purego.RegisterLibFunc(&tsNodeEndByte, libHandle, "ts_node_end_byte")
	purego.RegisterLibFunc(&tsNodeStartPoint, libHandle, "ts_node_start_point")
	purego.RegisterLibFunc(&tsNodeChildCount, libHandle, "ts_node_child_count")
	purego.RegisterLibFunc(&tsNodeChild, libHandle, "ts_node_child")
	purego.RegisterLibFunc(&tsNodeIsNull, libHandle, "ts_node_is_null")
	purego.RegisterLibFunc(&tsNodeHasError, libHandle, "ts_node_has_error")
	purego.RegisterLibFunc(&tsNodeChildByFieldName, libHandle, "ts_node_child_by_field_name")
}

func findRuntimeLibrary() string {
	for _, path := range runtimeSearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func runtimeSearchPaths() []string {
	if override := os.Getenv("SKILLGRADE_TS_LIB"); override != "" {
		return []string{override}
	}

	paths := []string{
		"/usr/local/lib/" + runtimeLibName(),
		"/usr/lib/" + runtimeLibName(),
	}

	if runtime.GOOS == "darwin" {
		paths = append(paths,
			"/opt/homebrew/lib/"+runtimeLibName(),
			"/usr/local/opt/tree-sitter/lib/"+runtimeLibName(),
		)
	}

	if runtime.GOOS == "linux" {
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu/"+runtimeLibName(),
			"/usr/lib/aarch64-linux-gnu/"+runtimeLibName(),
		)
	}

	return paths
}

func runtimeLibName() string {
	switch runtime.GOOS {
	case "darwin":
		return "libtree-sitter.dylib"
	case "windows":
		return "tree-sitter.dll"
	default:
		return "libtree-sitter.so"
	}
}

// ParserNew creates a new parser instance.
func ParserNew() TSParser {
	return tsParserNew()
}

// ParserDelete frees a parser.
func ParserDelete(parser TSParser) {
	tsParserDelete(parser)
}

// ParserSetLanguage sets the language for a parser.
func ParserSetLanguage(parser TSParser, lang TSLanguage) bool {
	return tsParserSetLanguage(parser, lang)
}

// ParserParseString parses source text into a syntax tree.
func ParserParseString(parser TSParser, content []byte) TSTree {
	if len(content) == 0 {
		return 0
	}
	return tsParserParseString(parser, 0, &content[0], uint32(len(content)))
}

// TreeDelete frees a syntax tree.
func TreeDelete(tree TSTree) {
	tsTreeDelete(tree)
}

// TreeRootNode returns the root node of a tree.
func TreeRootNode(tree TSTree) TSNode {
	return tsTreeRootNode(tree)
}

// NodeType returns the grammar type of a node as a string.
func NodeType(node TSNode) string {
	return cStringToGo(tsNodeType(node))
}

// NodeStartByte returns the start byte offset of a node.
func NodeStartByte(node TSNode) uint32 {
	return tsNodeStartByte(node)
}

// NodeEndByte returns the end byte offset of a node.
func NodeEndByte(node TSNode) uint32 {
	return tsNodeEndByte(node)
}

// NodeStartPoint returns the start position of a node.
func NodeStartPoint(node TSNode) TSPoint {
	return tsNodeStartPoint(node)
}

// NodeChildCount returns the number of children of a node.
func NodeChildCount(node TSNode) uint32 {
	return tsNodeChildCount(node)
}

// NodeChild returns the child at the given index.
func NodeChild(node TSNode, index uint32) TSNode {
	return tsNodeChild(node, index)
}

// NodeIsNull returns true if the node is null.
func NodeIsNull(node TSNode) bool {
	return tsNodeIsNull(node)
}

// NodeHasError returns true if the node contains a parse error.
func NodeHasError(node TSNode) bool {
	return tsNodeHasError(node)
}

// NodeChildByFieldName returns the child with the given field name.
func NodeChildByFieldName(node TSNode, name string) TSNode {
	if name == "" {
		return TSNode{}
	}
	nameBytes := []byte(name)
	return tsNodeChildByFieldName(node, &nameBytes[0], uint32(len(name)))
}

func cStringToGo(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var length int
	for p := ptr; *p != 0; p = addOffset(p, 1) {
		length++
	}
	if length == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = *addOffset(ptr, i)
	}
	return string(out)
}

func addOffset(ptr *byte, offset int) *byte {
	return (*byte)(unsafe.Add(unsafe.Pointer(ptr), offset))
}

package ast

// NodeKind discriminates syntax tree nodes. The set below covers the base
// dialect; values outside it are tolerated by consumers.
type NodeKind uint16

const (
	KindInvalid NodeKind = iota

	// Top level and statements.
	KindProgram
	KindBlock
	KindExprStmt
	KindReturn
	KindIf
	KindFor
	KindSwitch
	KindCase
	KindTry
	KindCatch
	KindThrow

	// Declarations.
	KindFunctionDecl
	KindFunctionExpr
	KindParamList
	KindParam
	KindVarDecl
	KindDeclarator
	KindClassDecl
	KindClassBody
	KindImport
	KindImportBinding
	KindExport

	// Expressions.
	KindIdentifier
	KindMember
	KindAssign
	KindUpdate
	KindCall
	KindBinary
	KindUnary
	KindLiteral

	// Type-level constructs.
	KindTypeAlias
	KindInterfaceDecl
	KindEnumDecl
	KindEnumMember
	KindNamespaceDecl
	KindTypeAnnotation
	KindTypeRef
	KindTypeParams
	KindTypeParam
	KindConditionalType
	KindInferType

	kindCount // keep last
)

var kindNames = [...]string{
	KindInvalid:         "invalid",
	KindProgram:         "program",
	KindBlock:           "block",
	KindExprStmt:        "expr_stmt",
	KindReturn:          "return",
	KindIf:              "if",
	KindFor:             "for",
	KindSwitch:          "switch",
	KindCase:            "case",
	KindTry:             "try",
	KindCatch:           "catch",
	KindThrow:           "throw",
	KindFunctionDecl:    "function_decl",
	KindFunctionExpr:    "function_expr",
	KindParamList:       "param_list",
	KindParam:           "param",
	KindVarDecl:         "var_decl",
	KindDeclarator:      "declarator",
	KindClassDecl:       "class_decl",
	KindClassBody:       "class_body",
	KindImport:          "import",
	KindImportBinding:   "import_binding",
	KindExport:          "export",
	KindIdentifier:      "identifier",
	KindMember:          "member",
	KindAssign:          "assign",
	KindUpdate:          "update",
	KindCall:            "call",
	KindBinary:          "binary",
	KindUnary:           "unary",
	KindLiteral:         "literal",
	KindTypeAlias:       "type_alias",
	KindInterfaceDecl:   "interface_decl",
	KindEnumDecl:        "enum_decl",
	KindEnumMember:      "enum_member",
	KindNamespaceDecl:   "namespace_decl",
	KindTypeAnnotation:  "type_annotation",
	KindTypeRef:         "type_ref",
	KindTypeParams:      "type_params",
	KindTypeParam:       "type_param",
	KindConditionalType: "conditional_type",
	KindInferType:       "infer_type",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// KindByName maps a stable textual name back to a kind. Used by dialect
// configuration files and the tree interchange format.
func KindByName(name string) (NodeKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return NodeKind(k), true
		}
	}
	return KindInvalid, false
}

// KnownKind reports whether k is part of the base dialect enumeration.
func KnownKind(k NodeKind) bool {
	return k > KindInvalid && k < kindCount
}

package hostlex

var javaKeywords = []string{
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char", "class", "const",
	"continue", "default", "do", "double", "else", "enum", "extends", "final", "finally", "float",
	"for", "goto", "if", "implements", "import", "instanceof", "int", "interface", "long", "native",
	"new", "package", "private", "protected", "public", "return", "short", "static", "strictfp",
	"super", "switch", "synchronized", "this", "throw", "throws", "transient", "try", "void",
	"volatile", "while", "var", "record", "yield", "sealed", "permits", "true", "false", "null",
}

var kotlinKeywords = []string{
	"as", "break", "class", "continue", "do", "else", "false", "for", "fun", "if", "in",
	"interface", "is", "null", "object", "package", "return", "super", "this", "throw", "true",
	"try", "typealias", "typeof", "val", "var", "when", "while", "by", "catch", "constructor",
	"finally", "get", "import", "init", "set", "where", "companion", "data", "override", "private",
	"protected", "public", "internal", "sealed", "suspend", "lateinit", "open", "abstract",
}

var cKeywordList = []string{
	"auto", "break", "case", "char", "const", "continue", "default", "do", "double", "else",
	"enum", "extern", "float", "for", "goto", "if", "inline", "int", "long", "register",
	"restrict", "return", "short", "signed", "sizeof", "static", "struct", "switch", "typedef",
	"union", "unsigned", "void", "volatile", "while", "_Bool", "_Atomic",
}

var cppKeywords = append(append([]string{}, cKeywordList...),
	"bool", "catch", "class", "constexpr", "decltype", "delete", "explicit", "false", "friend",
	"mutable", "namespace", "new", "noexcept", "nullptr", "operator", "private", "protected",
	"public", "template", "this", "throw", "true", "try", "typename", "using", "virtual",
)

var csharpKeywords = []string{
	"abstract", "as", "base", "bool", "break", "byte", "case", "catch", "char", "checked",
	"class", "const", "continue", "decimal", "default", "delegate", "do", "double", "else",
	"enum", "event", "explicit", "extern", "false", "finally", "fixed", "float", "for",
	"foreach", "goto", "if", "implicit", "in", "int", "interface", "internal", "is", "lock",
	"long", "namespace", "new", "null", "object", "operator", "out", "override", "params",
	"private", "protected", "public", "readonly", "ref", "return", "sealed", "short", "sizeof",
	"static", "string", "struct", "switch", "this", "throw", "true", "try", "typeof", "uint",
	"using", "var", "virtual", "void", "while",
}

var jsKeywords = []string{
	"async", "await", "break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "export", "extends", "false", "finally", "for",
	"function", "if", "import", "in", "instanceof", "let", "new", "null", "of", "return",
	"static", "super", "switch", "this", "throw", "true", "try", "typeof", "undefined", "var",
	"void", "while", "yield",
}

var tsKeywords = append(append([]string{}, jsKeywords...),
	"abstract", "any", "as", "boolean", "declare", "enum", "implements", "interface", "keyof",
	"namespace", "never", "number", "private", "protected", "public", "readonly", "string",
	"type", "unknown",
)

var cKeywords = map[string][]string{
	"java":       javaKeywords,
	"groovy":     javaKeywords,
	"kotlin":     kotlinKeywords,
	"c":          cKeywordList,
	"cpp":        cppKeywords,
	"csharp":     csharpKeywords,
	"javascript": jsKeywords,
	"typescript": tsKeywords,
}

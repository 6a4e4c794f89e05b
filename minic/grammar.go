package minic

import "github.com/arcbound/minicc/grammar"

// nt and t are local shorthands kept private to this file; Grammar below
// is the only thing other packages need.
func nt(name string) grammar.Symbol { return grammar.NonTerminal(name) }
func t(name string) grammar.Symbol  { return grammar.Terminal(name) }

// Grammar returns the MiniC LALR(1) grammar: declarations (scalars,
// arrays, functions), the usual C-shaped statement forms, and a single
// precedence-climbing expression hierarchy with assignment folded in at
// the bottom (as a right-associative, lowest-precedence production) so
// that "lvalue vs. expression" never becomes a grammar-level reduce/
// reduce conflict - whether an assignment's left side is actually
// assignable (an identifier, an index, or a dereference) is a semantic
// check performed in ir, not a syntactic one. The grammar does carry
// benign shift/reduce conflicts, all resolved by BuildTable's shift-wins
// default: the classic dangling-else ambiguity, and the empty
// alternatives of DeclList and StmtList against the first token of a
// declaration or statement. ASSIGN itself causes no conflict.
func Grammar() *grammar.Grammar {
	program := nt("DeclList")

	g := &grammar.Grammar{
		Start: program,
		Productions: []grammar.Production{
			// --- declarations ---
			{LHS: nt("DeclList"), RHS: nil, Action: `$$ = newNode("DeclList")`},
			{LHS: nt("DeclList"), RHS: []grammar.Symbol{nt("Decl")}, Action: `$$ = newNode("DeclList", $1)`},
			{LHS: nt("DeclList"), RHS: []grammar.Symbol{nt("DeclList"), nt("Decl")}, Action: `$$ = newNode("DeclList", $1, $2)`},

			{LHS: nt("Decl"), RHS: []grammar.Symbol{nt("VarDecl")}, Action: `$$ = $1`},
			{LHS: nt("Decl"), RHS: []grammar.Symbol{nt("ArrayDecl")}, Action: `$$ = $1`},
			{LHS: nt("Decl"), RHS: []grammar.Symbol{nt("FuncDecl")}, Action: `$$ = $1`},

			{LHS: nt("Type"), RHS: []grammar.Symbol{t("INT")}, Action: `$$ = newNode("Type", $1)`},
			{LHS: nt("Type"), RHS: []grammar.Symbol{t("VOID")}, Action: `$$ = newNode("Type", $1)`},
			{LHS: nt("Type"), RHS: []grammar.Symbol{t("STRING")}, Action: `$$ = newNode("Type", $1)`},

			{LHS: nt("VarDecl"), RHS: []grammar.Symbol{nt("Type"), t("IDENTIFIER"), t("SEMI")}, Action: `$$ = newNode("VarDecl", $1, $2)`},
			{LHS: nt("ArrayDecl"), RHS: []grammar.Symbol{nt("Type"), t("IDENTIFIER"), t("NUMBER"), t("SEMI")}, Action: `$$ = newNode("ArrayDecl", $1, $2, $3)`},

			{LHS: nt("FuncDecl"), RHS: []grammar.Symbol{nt("Type"), t("IDENTIFIER"), t("LPAREN"), nt("Params"), t("RPAREN"), nt("Block")},
				Action: `$$ = newNode("FuncDecl", $1, $2, $4, $6)`},

			{LHS: nt("Params"), RHS: []grammar.Symbol{t("VOID")}, Action: `$$ = newNode("ParamList")`},
			{LHS: nt("Params"), RHS: []grammar.Symbol{nt("ParamList")}, Action: `$$ = $1`},

			{LHS: nt("ParamList"), RHS: nil, Action: `$$ = newNode("ParamList")`},
			{LHS: nt("ParamList"), RHS: []grammar.Symbol{nt("Param")}, Action: `$$ = newNode("ParamList", $1)`},
			{LHS: nt("ParamList"), RHS: []grammar.Symbol{nt("ParamList"), t("COMMA"), nt("Param")}, Action: `$$ = newNode("ParamList", $1, $3)`},

			{LHS: nt("Param"), RHS: []grammar.Symbol{nt("Type"), t("IDENTIFIER")}, Action: `$$ = newNode("Param", $1, $2)`},
			{LHS: nt("Param"), RHS: []grammar.Symbol{nt("Type"), t("IDENTIFIER"), t("LBRACKET"), t("RBRACKET")}, Action: `$$ = newNode("ArrayParam", $1, $2)`},

			// --- statements ---
			{LHS: nt("Block"), RHS: []grammar.Symbol{t("LBRACE"), nt("StmtList"), t("RBRACE")}, Action: `$$ = newNode("Block", $2)`},

			{LHS: nt("StmtList"), RHS: nil, Action: `$$ = newNode("StmtList")`},
			{LHS: nt("StmtList"), RHS: []grammar.Symbol{nt("Stmt")}, Action: `$$ = newNode("StmtList", $1)`},
			{LHS: nt("StmtList"), RHS: []grammar.Symbol{nt("StmtList"), nt("Stmt")}, Action: `$$ = newNode("StmtList", $1, $2)`},

			{LHS: nt("Stmt"), RHS: []grammar.Symbol{nt("VarDecl")}, Action: `$$ = $1`},
			{LHS: nt("Stmt"), RHS: []grammar.Symbol{nt("Block")}, Action: `$$ = $1`},
			{LHS: nt("Stmt"), RHS: []grammar.Symbol{nt("IfStmt")}, Action: `$$ = $1`},
			{LHS: nt("Stmt"), RHS: []grammar.Symbol{nt("WhileStmt")}, Action: `$$ = $1`},
			{LHS: nt("Stmt"), RHS: []grammar.Symbol{t("BREAK"), t("SEMI")}, Action: `$$ = newNode("Break")`},
			{LHS: nt("Stmt"), RHS: []grammar.Symbol{t("CONTINUE"), t("SEMI")}, Action: `$$ = newNode("Continue")`},
			{LHS: nt("Stmt"), RHS: []grammar.Symbol{nt("ReturnStmt")}, Action: `$$ = $1`},
			{LHS: nt("Stmt"), RHS: []grammar.Symbol{nt("ExprStmt")}, Action: `$$ = $1`},

			{LHS: nt("IfStmt"), RHS: []grammar.Symbol{t("IF"), t("LPAREN"), nt("Expr"), t("RPAREN"), nt("Stmt")}, Action: `$$ = newNode("If", $3, $5)`},
			{LHS: nt("IfStmt"), RHS: []grammar.Symbol{t("IF"), t("LPAREN"), nt("Expr"), t("RPAREN"), nt("Stmt"), t("ELSE"), nt("Stmt")}, Action: `$$ = newNode("IfElse", $3, $5, $7)`},

			{LHS: nt("WhileStmt"), RHS: []grammar.Symbol{t("WHILE"), t("LPAREN"), nt("Expr"), t("RPAREN"), nt("Stmt")}, Action: `$$ = newNode("While", $3, $5)`},

			{LHS: nt("ReturnStmt"), RHS: []grammar.Symbol{t("RETURN"), t("SEMI")}, Action: `$$ = newNode("ReturnVoid")`},
			{LHS: nt("ReturnStmt"), RHS: []grammar.Symbol{t("RETURN"), nt("Expr"), t("SEMI")}, Action: `$$ = newNode("ReturnExpr", $2)`},

			{LHS: nt("ExprStmt"), RHS: []grammar.Symbol{nt("Expr"), t("SEMI")}, Action: `$$ = newNode("ExprStmt", $1)`},

			// --- expressions, lowest to highest precedence; ASSIGN folds
			// in at the very bottom, right-associative ---
			{LHS: nt("Expr"), RHS: []grammar.Symbol{nt("UnaryExpr"), t("ASSIGN"), nt("Expr")}, Action: `$$ = newNode("Assign", $1, $3)`},
			{LHS: nt("Expr"), RHS: []grammar.Symbol{nt("LogicOrExpr")}, Action: `$$ = $1`},

			{LHS: nt("LogicOrExpr"), RHS: []grammar.Symbol{nt("LogicOrExpr"), t("OR_OP"), nt("LogicAndExpr")}, Action: `$$ = newNode("OR_OP", $1, $3)`},
			{LHS: nt("LogicOrExpr"), RHS: []grammar.Symbol{nt("LogicAndExpr")}, Action: `$$ = $1`},

			{LHS: nt("LogicAndExpr"), RHS: []grammar.Symbol{nt("LogicAndExpr"), t("AND_OP"), nt("BitOrExpr")}, Action: `$$ = newNode("AND_OP", $1, $3)`},
			{LHS: nt("LogicAndExpr"), RHS: []grammar.Symbol{nt("BitOrExpr")}, Action: `$$ = $1`},

			{LHS: nt("BitOrExpr"), RHS: []grammar.Symbol{nt("BitOrExpr"), t("BITOR_OP"), nt("BitXorExpr")}, Action: `$$ = newNode("BITOR_OP", $1, $3)`},
			{LHS: nt("BitOrExpr"), RHS: []grammar.Symbol{nt("BitXorExpr")}, Action: `$$ = $1`},

			{LHS: nt("BitXorExpr"), RHS: []grammar.Symbol{nt("BitXorExpr"), t("BITXOR_OP"), nt("BitAndExpr")}, Action: `$$ = newNode("BITXOR_OP", $1, $3)`},
			{LHS: nt("BitXorExpr"), RHS: []grammar.Symbol{nt("BitAndExpr")}, Action: `$$ = $1`},

			{LHS: nt("BitAndExpr"), RHS: []grammar.Symbol{nt("BitAndExpr"), t("BITAND_OP"), nt("EqExpr")}, Action: `$$ = newNode("BITAND_OP", $1, $3)`},
			{LHS: nt("BitAndExpr"), RHS: []grammar.Symbol{nt("EqExpr")}, Action: `$$ = $1`},

			{LHS: nt("EqExpr"), RHS: []grammar.Symbol{nt("EqExpr"), t("EQ_OP"), nt("RelExpr")}, Action: `$$ = newNode("EQ_OP", $1, $3)`},
			{LHS: nt("EqExpr"), RHS: []grammar.Symbol{nt("EqExpr"), t("NE_OP"), nt("RelExpr")}, Action: `$$ = newNode("NE_OP", $1, $3)`},
			{LHS: nt("EqExpr"), RHS: []grammar.Symbol{nt("RelExpr")}, Action: `$$ = $1`},

			{LHS: nt("RelExpr"), RHS: []grammar.Symbol{nt("RelExpr"), t("GT_OP"), nt("ShiftExpr")}, Action: `$$ = newNode("GT_OP", $1, $3)`},
			{LHS: nt("RelExpr"), RHS: []grammar.Symbol{nt("RelExpr"), t("LT_OP"), nt("ShiftExpr")}, Action: `$$ = newNode("LT_OP", $1, $3)`},
			{LHS: nt("RelExpr"), RHS: []grammar.Symbol{nt("RelExpr"), t("GE_OP"), nt("ShiftExpr")}, Action: `$$ = newNode("GE_OP", $1, $3)`},
			{LHS: nt("RelExpr"), RHS: []grammar.Symbol{nt("RelExpr"), t("LE_OP"), nt("ShiftExpr")}, Action: `$$ = newNode("LE_OP", $1, $3)`},
			{LHS: nt("RelExpr"), RHS: []grammar.Symbol{nt("ShiftExpr")}, Action: `$$ = $1`},

			{LHS: nt("ShiftExpr"), RHS: []grammar.Symbol{nt("ShiftExpr"), t("LEFT_OP"), nt("AddExpr")}, Action: `$$ = newNode("LEFT_OP", $1, $3)`},
			{LHS: nt("ShiftExpr"), RHS: []grammar.Symbol{nt("ShiftExpr"), t("RIGHT_OP"), nt("AddExpr")}, Action: `$$ = newNode("RIGHT_OP", $1, $3)`},
			{LHS: nt("ShiftExpr"), RHS: []grammar.Symbol{nt("AddExpr")}, Action: `$$ = $1`},

			{LHS: nt("AddExpr"), RHS: []grammar.Symbol{nt("AddExpr"), t("PLUS"), nt("MulExpr")}, Action: `$$ = newNode("PLUS", $1, $3)`},
			{LHS: nt("AddExpr"), RHS: []grammar.Symbol{nt("AddExpr"), t("MINUS"), nt("MulExpr")}, Action: `$$ = newNode("MINUS", $1, $3)`},
			{LHS: nt("AddExpr"), RHS: []grammar.Symbol{nt("MulExpr")}, Action: `$$ = $1`},

			{LHS: nt("MulExpr"), RHS: []grammar.Symbol{nt("MulExpr"), t("MULTIPLY"), nt("UnaryExpr")}, Action: `$$ = newNode("MULTIPLY", $1, $3)`},
			{LHS: nt("MulExpr"), RHS: []grammar.Symbol{nt("MulExpr"), t("SLASH"), nt("UnaryExpr")}, Action: `$$ = newNode("SLASH", $1, $3)`},
			{LHS: nt("MulExpr"), RHS: []grammar.Symbol{nt("MulExpr"), t("PERCENT"), nt("UnaryExpr")}, Action: `$$ = newNode("PERCENT", $1, $3)`},
			{LHS: nt("MulExpr"), RHS: []grammar.Symbol{nt("UnaryExpr")}, Action: `$$ = $1`},

			{LHS: nt("UnaryExpr"), RHS: []grammar.Symbol{t("NOT_OP"), nt("UnaryExpr")}, Action: `$$ = newNode("NOT_OP", $2)`},
			{LHS: nt("UnaryExpr"), RHS: []grammar.Symbol{t("MINUS"), nt("UnaryExpr")}, Action: `$$ = newNode("MINUS", $2)`},
			{LHS: nt("UnaryExpr"), RHS: []grammar.Symbol{t("PLUS"), nt("UnaryExpr")}, Action: `$$ = newNode("PLUS", $2)`},
			{LHS: nt("UnaryExpr"), RHS: []grammar.Symbol{t("BITINV_OP"), nt("UnaryExpr")}, Action: `$$ = newNode("BITINV_OP", $2)`},
			{LHS: nt("UnaryExpr"), RHS: []grammar.Symbol{t("DOLLAR"), nt("UnaryExpr")}, Action: `$$ = newNode("DOLLAR", $2)`},
			{LHS: nt("UnaryExpr"), RHS: []grammar.Symbol{nt("PostfixExpr")}, Action: `$$ = $1`},

			{LHS: nt("PostfixExpr"), RHS: []grammar.Symbol{nt("PostfixExpr"), t("LBRACKET"), nt("Expr"), t("RBRACKET")}, Action: `$$ = newNode("Index", $1, $3)`},
			{LHS: nt("PostfixExpr"), RHS: []grammar.Symbol{nt("PrimaryExpr")}, Action: `$$ = $1`},

			{LHS: nt("PrimaryExpr"), RHS: []grammar.Symbol{t("IDENTIFIER")}, Action: `$$ = newNode("Ident", $1)`},
			{LHS: nt("PrimaryExpr"), RHS: []grammar.Symbol{t("NUMBER")}, Action: `$$ = newNode("Number", $1)`},
			{LHS: nt("PrimaryExpr"), RHS: []grammar.Symbol{t("STRING_LIT")}, Action: `$$ = newNode("StringLit", $1)`},
			{LHS: nt("PrimaryExpr"), RHS: []grammar.Symbol{t("LPAREN"), nt("Expr"), t("RPAREN")}, Action: `$$ = newNode("Paren", $2)`},
			{LHS: nt("PrimaryExpr"), RHS: []grammar.Symbol{t("IDENTIFIER"), t("LPAREN"), nt("ArgList"), t("RPAREN")}, Action: `$$ = newNode("Call", $1, $3)`},
			{LHS: nt("PrimaryExpr"), RHS: []grammar.Symbol{t("ASM"), t("LPAREN"), t("STRING_LIT"), t("RPAREN")}, Action: `$$ = newNode("AsmCall", $3)`},

			{LHS: nt("ArgList"), RHS: nil, Action: `$$ = newNode("ArgList")`},
			{LHS: nt("ArgList"), RHS: []grammar.Symbol{nt("Expr")}, Action: `$$ = newNode("ArgList", $1)`},
			{LHS: nt("ArgList"), RHS: []grammar.Symbol{nt("ArgList"), t("COMMA"), nt("Expr")}, Action: `$$ = newNode("ArgList", $1, $3)`},
		},
	}
	return g
}

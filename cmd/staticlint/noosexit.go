package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

var noOsExitAnalyzer = &analysis.Analyzer{
	Name: "noosexit",
	Doc:  "запрещает использование os.Exit в функции main пакета main",
	Run:  runNoOsExit,
}

func runNoOsExit(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Name.Name != "main" || fn.Recv != nil || fn.Body == nil {
				continue
			}

			ast.Inspect(fn.Body, func(n ast.Node) bool {
				switch n := n.(type) {
				// Замыкания, горутины и defer не являются прямым вызовом в main
				case *ast.FuncLit, *ast.GoStmt, *ast.DeferStmt:
					return false
				case *ast.CallExpr:
					if isPkgFunc(pass, n, "os", "Exit") {
						pass.Reportf(n.Pos(), "использование os.Exit в функции main запрещено")
					}
				}
				return true
			})
		}
	}

	return nil, nil
}

// isPkgFunc вызов pkgPath.name с учётом алиасов импорта
func isPkgFunc(pass *analysis.Pass, call *ast.CallExpr, pkgPath string, names ...string) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}

	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok || pkgName.Imported().Path() != pkgPath {
		return false
	}

	for _, name := range names {
		if sel.Sel.Name == name {
			return true
		}
	}
	return false
}

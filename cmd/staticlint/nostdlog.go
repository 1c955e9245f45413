package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
)

var noStdLogAnalyzer = &analysis.Analyzer{
	Name: "nostdlog",
	Doc:  "запрещает log.Print*, log.Fatal* и fmt.Print* в пакетах internal/",
	Run:  runNoStdLog,
}

var (
	logFuncs = []string{"Print", "Printf", "Println", "Fatal", "Fatalf", "Fatalln", "Panic", "Panicf", "Panicln"}
	fmtFuncs = []string{"Print", "Printf", "Println"}
)

func runNoStdLog(pass *analysis.Pass) (any, error) {
	path := pass.Pkg.Path()
	if !strings.HasPrefix(path, "internal/") && !strings.Contains(path, "/internal/") {
		return nil, nil
	}

	for _, file := range pass.Files {
		if strings.HasSuffix(pass.Fset.File(file.Pos()).Name(), "_test.go") {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			switch {
			case isPkgFunc(pass, call, "log", logFuncs...):
				pass.Reportf(call.Pos(), "используйте logger.L() вместо стандартного log")
			case isPkgFunc(pass, call, "fmt", fmtFuncs...):
				pass.Reportf(call.Pos(), "вывод в stdout из internal запрещён, используйте logger.L()")
			}
			return true
		})
	}

	return nil, nil
}

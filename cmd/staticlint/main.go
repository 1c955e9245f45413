// Package main multichecker для статического анализа linkdash.
//
// # Запуск
//
//	go run ./cmd/staticlint ./...
//
// Или соберите бинарный файл:
//
//	go build -o staticlint ./cmd/staticlint
//	./staticlint ./...
//
// # Состав анализаторов
//
//   - printf, shadow, structtag, unusedresult из golang.org/x/tools/go/analysis/passes
//   - все анализаторы класса SA из staticcheck.io
//   - ST1003 (stylecheck) и QF1001 (quickfix)
//   - noosexit: запрещает os.Exit в функции main пакета main
//   - nostdlog: запрещает log.Print*, log.Fatal* и fmt.Print* в пакетах internal/,
//     там логирование идёт только через internal/logger (zap)
//
// # noosexit
//
// Вместо:
//
//	func main() {
//	    os.Exit(run()) // будет обнаружено
//	}
//
// Используйте:
//
//	func main() {
//	    if err := run(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/quickfix"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

func main() {
	checks := []*analysis.Analyzer{
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
		unusedresult.Analyzer,

		noOsExitAnalyzer,
		noStdLogAnalyzer,
	}

	for _, v := range staticcheck.Analyzers {
		checks = append(checks, v.Analyzer)
	}

	for _, v := range stylecheck.Analyzers {
		if v.Analyzer.Name == "ST1003" {
			checks = append(checks, v.Analyzer)
		}
	}

	for _, v := range quickfix.Analyzers {
		if v.Analyzer.Name == "QF1001" {
			checks = append(checks, v.Analyzer)
		}
	}

	multichecker.Main(checks...)
}

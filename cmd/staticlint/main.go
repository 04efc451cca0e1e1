// Package main содержит multichecker для статического анализа кода бота.
//
// Состав анализаторов:
//   - стандартные проверки из golang.org/x/tools/go/analysis/passes
//     (nilness, shadow, unreachable, printf, copylocks, structtag);
//   - все анализаторы класса SA из staticcheck.io;
//   - errcheck для контроля обработки возвращаемых ошибок;
//   - собственный noexit, запрещающий os.Exit в функции main.
//
// Использование:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/staticcheck"

	"github.com/kisielk/errcheck/errcheck"

	"github.com/tempizhere/gipervygoda/cmd/staticlint/noexit"
)

func main() {
	analyzers := []*analysis.Analyzer{
		nilness.Analyzer,
		shadow.Analyzer,
		unreachable.Analyzer,
		printf.Analyzer,
		copylock.Analyzer,
		structtag.Analyzer,
		errcheck.Analyzer,
		noexit.NoExitAnalyzer,
	}

	for _, analyzer := range staticcheck.Analyzers {
		analyzers = append(analyzers, analyzer.Analyzer)
	}

	multichecker.Main(analyzers...)
}

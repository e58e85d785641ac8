package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"strings"

	"crowdfund/internal/infra"
)

// statementPattern matches the first keyword of a SQL statement.
var statementPattern = regexp.MustCompile(`(?i)^(select|insert|update|delete|with|create|alter|drop)\b`)

type violation struct {
	file    string
	name    string
	line    int
	message string
}

// linter collects violations across files and remembers every marker it has seen,
// so a marker copied between two statements is reported.
type linter struct {
	seen       map[string]string
	violations []violation
}

func newLinter() *linter {
	return &linter{seen: make(map[string]string)}
}

func (l *linter) lintSource(path string, src any) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		return err
	}
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for i, value := range vs.Values {
			lit, ok := value.(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			raw, err := unquote(lit.Value)
			if err != nil || !isStatement(raw) {
				continue
			}
			name := specName(vs, i)
			pos := fset.Position(lit.Pos())
			marker, _, err := infra.SplitMarker(raw)
			if err != nil {
				l.report(path, name, pos.Line, "missing or invalid --sql <uuid> marker")
				continue
			}
			where := path + ":" + strconv.Itoa(pos.Line)
			if prev, dup := l.seen[marker]; dup {
				l.report(path, name, pos.Line, "marker "+marker+" already used at "+prev)
				continue
			}
			l.seen[marker] = where
		}
		return true
	})
	return nil
}

func (l *linter) report(file, name string, line int, msg string) {
	l.violations = append(l.violations, violation{file: file, name: name, line: line, message: msg})
}

// isStatement reports whether s reads as SQL once leading comment lines are skipped.
func isStatement(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		return statementPattern.MatchString(line)
	}
	return false
}

func specName(vs *ast.ValueSpec, i int) string {
	if i < len(vs.Names) && vs.Names[i] != nil {
		return vs.Names[i].Name
	}
	return "_"
}

func unquote(v string) (string, error) {
	if len(v) >= 2 && v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}

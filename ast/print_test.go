package ast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/soypat/go-pseudo/token"
)

func TestPrint(t *testing.T) {
	stmt := &VariableDeclaration{
		Name:     "count",
		Type:     &ArrayType{Elem: TypeInteger},
		Init:     &UnaryExpr{Op: token.Minus, Operand: &Identifier{Name: "n"}},
		Position: token.Position{Line: 2, Col: 1, Offset: 10},
	}

	var buf bytes.Buffer
	err := Fprint(&buf, stmt, nil)
	if err != nil {
		t.Fatalf("Fprint failed: %v", err)
	}

	output := buf.String()
	expected := []string{
		"VariableDeclaration",
		`Name: "count"`,
		"ArrayType",
		"Elem: integer",
		"Op: -",
		"Position 2:1 (offset 10)",
	}
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			t.Errorf("Output missing expected string %q\nGot:\n%s", exp, output)
		}
	}
}

func TestPrintWithFilter(t *testing.T) {
	stmt := &FunctionDeclaration{
		Name:     "f",
		Body:     nil,
		Position: token.Position{Line: 1, Col: 1},
	}

	var buf bytes.Buffer
	err := Fprint(&buf, stmt, NoPositionFilter)
	if err != nil {
		t.Fatalf("Fprint failed: %v", err)
	}

	output := buf.String()
	for _, absent := range []string{"Body", "ReturnType", "Position"} {
		if strings.Contains(output, absent) {
			t.Errorf("filtered output should not contain %q:\n%s", absent, output)
		}
	}
	if !strings.Contains(output, `Name: "f"`) {
		t.Errorf("missing name:\n%s", output)
	}
}

func TestPrintLiterals(t *testing.T) {
	var buf bytes.Buffer
	err := Fprint(&buf, []Expression{
		&CharacterLiteral{Value: 'あ'},
		&StringLiteral{Value: "a\nb"},
		&RealLiteral{Value: 2.5},
	}, NoPositionFilter)
	if err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	for _, exp := range []string{`Value: 'あ'`, `Value: "a\nb"`, "Value: 2.5", "(len=3)"} {
		if !strings.Contains(output, exp) {
			t.Errorf("Output missing expected string %q\nGot:\n%s", exp, output)
		}
	}
}

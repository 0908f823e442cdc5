package classfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/diversepwmeasurement/JWebAssembly/internal/funcname"
	"github.com/diversepwmeasurement/JWebAssembly/internal/instr"
)

// LoadFixtureFile parses a small YAML library description into ClassFiles,
// standing in for the external class-file parser in the cmd/j2wasmc demo
// path the same way fixture.go's Class/Method stand in for it in tests.
func LoadFixtureFile(path string) ([]ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadFixture(data)
}

// LoadFixture parses data in the schema documented by yamlFixture.
func LoadFixture(data []byte) ([]ClassFile, error) {
	var doc yamlFixture
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	out := make([]ClassFile, 0, len(doc.Classes))
	for _, yc := range doc.Classes {
		cls := &Class{
			CName:     yc.Name,
			Super:     yc.Super,
			HasSuper:  yc.Super != "",
			Ifaces:    yc.Interfaces,
			Src:       yc.SourceFile,
			Anns:      toAnnotations(yc.Annotations),
			FieldList: toFields(yc.Fields),
		}
		for _, ym := range yc.Methods {
			list, err := toInstructionList(ym.Instructions)
			if err != nil {
				return nil, fmt.Errorf("class %s method %s: %w", yc.Name, ym.Name, err)
			}
			localTypes := ym.LocalTypes
			localNames := make(map[int]string, len(ym.LocalNames))
			for k, v := range ym.LocalNames {
				localNames[k] = v
			}
			cls.MethodList = append(cls.MethodList, &Method{
				MName:      ym.Name,
				MSig:       ym.Signature,
				Static:     ym.Static,
				Abstract:   ym.Abstract,
				Native:     ym.Native,
				Anns:       toAnnotations(ym.Annotations),
				Body:       list,
				LocalTypes: localTypes,
				LocalNames: localNames,
			})
		}
		out = append(out, cls)
	}
	return out, nil
}

type yamlFixture struct {
	Classes []yamlClass `yaml:"classes"`
}

type yamlClass struct {
	Name        string           `yaml:"name"`
	Super       string           `yaml:"super"`
	Interfaces  []string         `yaml:"interfaces"`
	SourceFile  string           `yaml:"sourceFile"`
	Annotations []yamlAnnotation `yaml:"annotations"`
	Fields      []yamlField      `yaml:"fields"`
	Methods     []yamlMethod     `yaml:"methods"`
}

type yamlField struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type yamlAnnotation struct {
	Name   string            `yaml:"name"`
	Values map[string]string `yaml:"values"`
}

type yamlMethod struct {
	Name         string            `yaml:"name"`
	Signature    string            `yaml:"signature"`
	Static       bool              `yaml:"static"`
	Abstract     bool              `yaml:"abstract"`
	Native       bool              `yaml:"native"`
	Annotations  []yamlAnnotation  `yaml:"annotations"`
	LocalTypes   []string          `yaml:"localTypes"`
	LocalNames   map[int]string    `yaml:"localNames"`
	Instructions []yamlInstruction `yaml:"instructions"`
}

type yamlInstruction struct {
	Kind            string      `yaml:"kind"`
	Line            int         `yaml:"line"`
	CalleeClass     string      `yaml:"calleeClass"`
	CalleeMethod    string      `yaml:"calleeMethod"`
	CalleeSignature string      `yaml:"calleeSignature"`
	ReceiverType    string      `yaml:"receiverType"`
	BlockOp         string      `yaml:"blockOp"`
	StructClass     string      `yaml:"structClass"`
	ConstType       string      `yaml:"constType"`
	ConstValue      interface{} `yaml:"constValue"`
	Raw             string      `yaml:"raw"`
}

func toAnnotations(src []yamlAnnotation) []Annotation {
	out := make([]Annotation, 0, len(src))
	for _, a := range src {
		out = append(out, Annotation{Name: a.Name, Values: a.Values})
	}
	return out
}

func toFields(src []yamlField) []FieldInfo {
	out := make([]FieldInfo, 0, len(src))
	for _, f := range src {
		out = append(out, FieldInfo{Name: f.Name, Type: f.Type})
	}
	return out
}

func toInstructionList(src []yamlInstruction) (*instr.List, error) {
	list := &instr.List{}
	for _, yi := range src {
		in, err := toInstruction(yi)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, in)
	}
	return list, nil
}

func toInstruction(yi yamlInstruction) (instr.Instruction, error) {
	line := yi.Line
	if line == 0 {
		line = -1
	}
	in := instr.Instruction{Line: line, Opaque: yi.Raw}

	switch yi.Kind {
	case "call":
		in.Kind = instr.KindCall
	case "callvirtual":
		in.Kind = instr.KindCallVirtual
	case "callinterface":
		in.Kind = instr.KindCallInterface
	case "block":
		in.Kind = instr.KindBlock
	case "structnewdefault":
		in.Kind = instr.KindStructNewDefault
	case "const":
		in.Kind = instr.KindConst
	case "other", "":
		in.Kind = instr.KindOther
	default:
		return instr.Instruction{}, fmt.Errorf("unknown instruction kind %q", yi.Kind)
	}

	if yi.CalleeClass != "" || yi.CalleeMethod != "" {
		in.Callee = funcname.New(yi.CalleeClass, yi.CalleeMethod, yi.CalleeSignature)
	}
	in.ReceiverType = yi.ReceiverType
	in.StructClass = yi.StructClass

	switch yi.BlockOp {
	case "try":
		in.BlockOp = instr.BlockOpTry
	case "catch":
		in.BlockOp = instr.BlockOpCatch
	case "throw":
		in.BlockOp = instr.BlockOpThrow
	case "rethrow":
		in.BlockOp = instr.BlockOpRethrow
	}

	if yi.ConstType != "" {
		in.ConstType = yi.ConstType
		v, err := coerceConst(yi.ConstType, yi.ConstValue)
		if err != nil {
			return instr.Instruction{}, err
		}
		in.ConstValue = v
	}

	return in, nil
}

func coerceConst(constType string, raw interface{}) (interface{}, error) {
	switch constType {
	case "i32":
		return int32(toInt64(raw)), nil
	case "i64":
		return toInt64(raw), nil
	case "f32":
		return float32(toFloat64(raw)), nil
	case "f64":
		return toFloat64(raw), nil
	default:
		return nil, fmt.Errorf("unsupported constType %q", constType)
	}
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

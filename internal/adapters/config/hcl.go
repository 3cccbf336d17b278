package config

import (
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// hclForgefile is the top-level structure of forge.hcl:
//
//	project "demo" {
//	  lang = "java"
//	}
//	cache {
//	  remote = "https://cache.example.com"
//	  token  = env.FORGE_CACHE_TOKEN
//	}
//	task "lint" {
//	  command = "checkstyle src"
//	}
type hclForgefile struct {
	Project      *ProjectSection   `hcl:"project,block"`
	Java         *JavaSection      `hcl:"java,block"`
	Kotlin       *KotlinSection    `hcl:"kotlin,block"`
	Python       *PythonSection    `hcl:"python,block"`
	Dependencies map[string]string `hcl:"dependencies,optional"`
	Cache        *CacheSection     `hcl:"cache,block"`
	Tasks        []hclTask         `hcl:"task,block"`
}

type hclTask struct {
	Name        string   `hcl:"name,label"`
	Command     string   `hcl:"command,optional"`
	DependsOn   []string `hcl:"depends_on,optional"`
	Description string   `hcl:"description,optional"`
	Timeout     string   `hcl:"timeout,optional"`
}

func (l *Loader) decodeHCL(configPath string) (*Forgefile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(configPath)
	if diags.HasErrors() {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, diags.Error()), "path", configPath)
	}

	var parsed hclForgefile
	if diags := gohcl.DecodeBody(file.Body, l.evalContext(), &parsed); diags.HasErrors() {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, diags.Error()), "path", configPath)
	}

	out := &Forgefile{
		Java:         parsed.Java,
		Kotlin:       parsed.Kotlin,
		Python:       parsed.Python,
		Dependencies: parsed.Dependencies,
	}
	if parsed.Project != nil {
		out.Project = *parsed.Project
	}
	if parsed.Cache != nil {
		out.Cache = *parsed.Cache
	}
	if len(parsed.Tasks) > 0 {
		out.Tasks = make(map[string]TaskSection, len(parsed.Tasks))
	}
	for _, t := range parsed.Tasks {
		if _, dup := out.Tasks[t.Name]; dup {
			err := zerr.With(zerr.Wrap(domain.ErrTaskAlreadyExists, t.Name), "task", t.Name)
			return nil, zerr.With(err, "path", configPath)
		}
		out.Tasks[t.Name] = TaskSection{
			Command:     t.Command,
			DependsOn:   t.DependsOn,
			Description: t.Description,
			Timeout:     t.Timeout,
		}
	}
	return out, nil
}

// evalContext exposes the environment as an object, so forge.hcl can write
// env.FORGE_CACHE_TOKEN.
func (l *Loader) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	if l.Environ != nil {
		for _, kv := range l.Environ() {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || key == "" || !utf8.ValidString(value) {
				continue
			}
			vars[key] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

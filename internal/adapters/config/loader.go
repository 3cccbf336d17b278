// Package config loads forge.yaml and forge.hcl project files.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// languageDefaults holds the per-language values used when a section omits them.
var languageDefaults = map[string]domain.LanguageSettings{
	domain.LangJava:   {SourceDir: "src/main/java", Target: "17"},
	domain.LangKotlin: {SourceDir: "src/main/kotlin", Target: "17"},
	domain.LangPython: {SourceDir: "src"},
}

// Loader implements ports.ConfigLoader.
type Loader struct {
	Logger ports.Logger
	// Getenv resolves environment variables for token_env and the HCL env object.
	Getenv func(string) string
	// Environ lists the environment exposed to forge.hcl.
	Environ func() []string
}

// NewLoader creates a new Loader with the given logger, reading the process environment.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv, Environ: os.Environ}
}

// Load finds the configuration at or above cwd and returns the validated project.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file *Forgefile
	if filepath.Base(configPath) == domain.HCLConfigFileName {
		file, err = l.decodeHCL(configPath)
	} else {
		file, err = readYAML(configPath)
	}
	if err != nil {
		return nil, err
	}

	return l.toProject(file, configPath)
}

// DiscoverRoot walks up from cwd to find the project root.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		for _, name := range []string{domain.ConfigFileName, domain.HCLConfigFileName} {
			candidate := filepath.Join(currentDir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no project file at or above "+cwd), "cwd", cwd)
}

func readYAML(configPath string) (*Forgefile, error) {
	// #nosec G304 -- configPath is found by walking up from the working directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var file Forgefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", configPath)
	}
	return &file, nil
}

func (l *Loader) toProject(file *Forgefile, configPath string) (*domain.Project, error) {
	if file.Project.Name == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrMissingProjectName, configPath), "path", configPath)
	}

	lang := file.Project.Lang
	settings, ok := languageDefaults[lang]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedLanguage, "'"+lang+"'"), "lang", lang)
	}
	l.applyLanguageSection(file, lang, &settings)

	remote := domain.RemoteCacheConfig{
		URL:   file.Cache.Remote,
		Token: file.Cache.Token,
		Push:  file.Cache.Push,
	}
	if remote.Token == "" && file.Cache.TokenEnv != "" && l.Getenv != nil {
		remote.Token = l.Getenv(file.Cache.TokenEnv)
	}

	p := &domain.Project{
		Name:         file.Project.Name,
		Version:      valueOr(file.Project.Version, domain.DefaultProjectVersion),
		Description:  file.Project.Description,
		Root:         filepath.Dir(configPath),
		OutputDir:    filepath.FromSlash(valueOr(file.Project.OutputDir, domain.DefaultOutputDir)),
		Lang:         lang,
		Settings:     settings,
		Dependencies: maps.Clone(file.Dependencies),
		Remote:       remote,
		ConfigPath:   configPath,
	}
	if p.Remote.Push && p.Remote.URL == "" {
		l.Logger.Warn("'cache.push' has no effect without 'cache.remote'")
	}

	tasks, err := toTaskSpecs(file.Tasks)
	if err != nil {
		return nil, err
	}
	p.Tasks = tasks

	return p, nil
}

func (l *Loader) applyLanguageSection(file *Forgefile, lang string, s *domain.LanguageSettings) {
	switch lang {
	case domain.LangJava:
		if file.Java == nil {
			break
		}
		s.SourceDir = valueOr(file.Java.Source, s.SourceDir)
		s.Target = valueOr(file.Java.Target, s.Target)
		s.MainEntry = file.Java.MainClass
		s.TestClasspath = file.Java.JUnitJar
	case domain.LangKotlin:
		if file.Kotlin == nil {
			break
		}
		s.SourceDir = valueOr(file.Kotlin.Source, s.SourceDir)
		s.Target = valueOr(file.Kotlin.JVMTarget, s.Target)
		s.MainEntry = file.Kotlin.MainClass
	case domain.LangPython:
		if file.Python == nil {
			break
		}
		s.SourceDir = valueOr(file.Python.Source, s.SourceDir)
		s.Target = file.Python.PythonVersion
		s.MainEntry = file.Python.MainScript
	}

	sections := []struct {
		lang    string
		present bool
	}{
		{domain.LangJava, file.Java != nil},
		{domain.LangKotlin, file.Kotlin != nil},
		{domain.LangPython, file.Python != nil},
	}
	for _, section := range sections {
		if section.present && section.lang != lang {
			l.Logger.Warn(fmt.Sprintf("'%s' section has no effect for a %s project", section.lang, lang))
		}
	}
	s.SourceDir = filepath.FromSlash(s.SourceDir)
}

// toTaskSpecs validates custom tasks and returns them sorted by name.
func toTaskSpecs(tasks map[string]TaskSection) ([]domain.TaskSpec, error) {
	specs := make([]domain.TaskSpec, 0, len(tasks))
	for _, name := range slices.Sorted(maps.Keys(tasks)) {
		if err := domain.ValidateTaskName(name); err != nil {
			return nil, err
		}
		dto := tasks[name]

		var timeout time.Duration
		if dto.Timeout != "" {
			d, err := time.ParseDuration(dto.Timeout)
			if err != nil || d < 0 {
				err = zerr.With(zerr.Wrap(domain.ErrInvalidTimeout, "'"+dto.Timeout+"'"), "task", name)
				return nil, zerr.With(err, "timeout", dto.Timeout)
			}
			timeout = d
		}

		specs = append(specs, domain.TaskSpec{
			Name:        name,
			Command:     dto.Command,
			Description: dto.Description,
			DependsOn:   slices.Clone(dto.DependsOn),
			Timeout:     timeout,
		})
	}
	return specs, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

package config

// Forgefile represents the structure of forge.yaml. forge.hcl is decoded through
// hclForgefile into the same shape; the section types carry both tag sets.
type Forgefile struct {
	Project      ProjectSection         `yaml:"project"`
	Java         *JavaSection           `yaml:"java"`
	Kotlin       *KotlinSection         `yaml:"kotlin"`
	Python       *PythonSection         `yaml:"python"`
	Dependencies map[string]string      `yaml:"dependencies"`
	Cache        CacheSection           `yaml:"cache"`
	Tasks        map[string]TaskSection `yaml:"tasks"`
}

// ProjectSection describes the project itself.
type ProjectSection struct {
	Name        string `yaml:"name"        hcl:"name,label"`
	Version     string `yaml:"version"     hcl:"version,optional"`
	Lang        string `yaml:"lang"        hcl:"lang"`
	Description string `yaml:"description" hcl:"description,optional"`
	OutputDir   string `yaml:"output_dir"  hcl:"output_dir,optional"`
}

// JavaSection configures the java toolchain.
type JavaSection struct {
	Source    string `yaml:"source"     hcl:"source,optional"`
	Target    string `yaml:"target"     hcl:"target,optional"`
	MainClass string `yaml:"main_class" hcl:"main_class,optional"`
	JUnitJar  string `yaml:"junit_jar"  hcl:"junit_jar,optional"`
}

// KotlinSection configures the kotlin toolchain.
type KotlinSection struct {
	Source    string `yaml:"source"     hcl:"source,optional"`
	JVMTarget string `yaml:"jvm_target" hcl:"jvm_target,optional"`
	MainClass string `yaml:"main_class" hcl:"main_class,optional"`
}

// PythonSection configures the python toolchain.
type PythonSection struct {
	Source        string `yaml:"source"         hcl:"source,optional"`
	MainScript    string `yaml:"main_script"    hcl:"main_script,optional"`
	PythonVersion string `yaml:"python_version" hcl:"python_version,optional"`
}

// CacheSection configures the remote cache.
type CacheSection struct {
	Remote string `yaml:"remote" hcl:"remote,optional"`
	Token  string `yaml:"token"  hcl:"token,optional"`
	// TokenEnv names an environment variable holding the token.
	TokenEnv string `yaml:"token_env" hcl:"token_env,optional"`
	Push     bool   `yaml:"push"      hcl:"push,optional"`
}

// TaskSection represents a custom task.
type TaskSection struct {
	Command     string   `yaml:"command"     hcl:"command,optional"`
	DependsOn   []string `yaml:"depends_on"  hcl:"depends_on,optional"`
	Description string   `yaml:"description" hcl:"description,optional"`
	Timeout     string   `yaml:"timeout"     hcl:"timeout,optional"`
}

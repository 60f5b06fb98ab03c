package manager

import (
	"github.com/valyala/fasttemplate"
)

// Placeholder understood by the shell templates.
const tmplCommand = "command"

// nvm is a shell function, so outside an interactive shell it has to be
// sourced before it can be called. NVM_DIR reaches the script through the
// process environment and is never spliced into the script text.
const nvmBootstrap = `[ -s "$NVM_DIR/nvm.sh" ] && . "$NVM_DIR/nvm.sh" >/dev/null 2>&1; ` +
	`{{command}}`

const fnmBootstrap = `eval "$(fnm env)" >/dev/null 2>&1; {{command}}`

func renderScript(template string, values map[string]string) string {
	args := make(map[string]interface{}, len(values))
	for k, v := range values {
		args[k] = v
	}
	return fasttemplate.New(template, "{{", "}}").ExecuteString(args)
}

// nvmScript wraps command so it runs with nvm loaded from $NVM_DIR.
func nvmScript(command string) string {
	return renderScript(nvmBootstrap, map[string]string{
		tmplCommand: command,
	})
}

// nvmEnv is the environment nvmScript expects.
func nvmEnv(nvmDir string) map[string]string {
	return map[string]string{"NVM_DIR": nvmDir}
}

// fnmScript wraps command so it runs inside fnm's environment.
func fnmScript(command string) string {
	return renderScript(fnmBootstrap, map[string]string{
		tmplCommand: command,
	})
}

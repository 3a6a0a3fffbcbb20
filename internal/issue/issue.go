// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	NoCompatibleModeId
	RuntimeUnavailableId
	StepExecutionFailedId
	StateStoreFailedId
	ConfigLoadFailedId
	HostNotSupportedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No manifest found!

We could not find an install manifest at the path you gave.

## Things you can try:
- Check the path for typos:
~~~
$ tailor plan ./tailor.json
~~~

- Run from the directory that contains the manifest:
~~~
$ cd /path/to/your/app
$ tailor install tailor.json
~~~

- Ask the application vendor where their manifest ships.`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse manifest!

Your manifest contains syntax errors or invalid configuration.

## Common issues:
- Invalid JSON syntax (trailing commas, missing quotes, unbalanced braces)
- A step object with no recognized step field
- Missing required fields (app_name, version, modes)
- A mode with an empty steps table

## Things you can try:
- Check the error message above for the offending field
- Validate the manifest without installing anything:
~~~
$ tailor validate tailor.json
~~~

## Example of a valid mode definition:
~~~json
"lite": {
  "steps": {
    "macos": [
      {"run": "echo installing"}
    ]
  }
}
~~~`,
	}

	noCompatibleModeIssue = &Issue{
		id: NoCompatibleModeId,
		mdMsg: `
# No compatible installation mode!

Every mode in the manifest was rejected for this machine, so there is
nothing we can safely install.

## Things you can try:
- See exactly why each mode was rejected:
~~~
$ tailor plan tailor.json
~~~

- Compare the rejection reasons with your machine profile:
~~~
$ tailor detect
~~~

- Install a package manager the manifest requires (for example Homebrew)
- Free up the RAM or upgrade the OS version a mode asks for
- Ask the vendor for a manifest that supports your platform`,
	}

	runtimeUnavailableIssue = &Issue{
		id: RuntimeUnavailableId,
		mdMsg: `
# Runtime not available!

The selected mode needs a language runtime that could not be provisioned
on this machine.

## How runtimes are resolved:
- **node_local**: a Node.js bundle under the work root, with a global
  ` + "`node`" + ` from PATH as fallback when the strategy allows it
- **python_venv**: a virtual environment under the work root, created
  with ` + "`python3 -m venv`" + ` (or the ` + "`py`" + ` launcher on Windows)

## Things you can try:
- Install the runtime globally so the fallback can find it
- Check the minimum version the manifest asks for against what you have:
~~~
$ node --version
$ python3 --version
~~~

- Re-run with verbose logging to see every probe:
~~~
$ tailor --verbose install tailor.json
~~~`,
		extLinks: []HttpLink{
			"https://nodejs.org/en/download",
			"https://www.python.org/downloads/",
		},
	}

	stepExecutionFailedIssue = &Issue{
		id: StepExecutionFailedId,
		mdMsg: `
# Step execution failed!

One of the install steps failed, so the remaining steps were not run.
Re-running the install starts again from the first step; completed work
is simply redone.

## Common causes:
- A command not found on PATH
- A download URL that is unreachable or returns an error status
- An archive that is not a .zip or contains unsafe paths
- Permission denied inside the work root

## Things you can try:
- Read the streamed output above the failure marker
- Test the failing command manually in your shell
- Re-run with verbose logging:
~~~
$ tailor --verbose install tailor.json
~~~`,
	}

	stateStoreFailedIssue = &Issue{
		id: StateStoreFailedId,
		mdMsg: `
# Could not record the install!

The install itself finished with the outcome printed above, but writing
the outcome to the install history failed.

## History file locations:
- macOS: ~/Library/Application Support/tailor/state.json
- Windows: %APPDATA%\tailor\state.json
- Linux: ~/.local/state/tailor/state.json

## Things you can try:
- Check the directory exists and is writable
- Point the history somewhere else in your config:
~~~cue
state_dir: "/some/writable/dir"
~~~

- Inspect the file for damage if it exists:
~~~
$ tailor list-installed
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the tailor configuration file.

## Configuration file locations:
- Linux: ~/.config/tailor/config.cue
- macOS: ~/Library/Application Support/tailor/config.cue
- Windows: %APPDATA%\tailor\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to fall back to defaults:
~~~
$ rm ~/.config/tailor/config.cue
~~~

## Example configuration:
~~~cue
log_level: "info"
state_dir: "/var/lib/tailor"
work_root: "./install"
~~~`,
	}

	hostNotSupportedIssue = &Issue{
		id: HostNotSupportedId,
		mdMsg: `
# Host not supported!

Install manifests target macOS and Windows; this machine reports an
operating system manifests cannot name.

## Things you can try:
- Run the install on a macOS or Windows machine
- Check whether the vendor ships a package for your OS instead`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():    manifestNotFoundIssue,
		manifestParseErrorIssue.Id():  manifestParseErrorIssue,
		noCompatibleModeIssue.Id():    noCompatibleModeIssue,
		runtimeUnavailableIssue.Id():  runtimeUnavailableIssue,
		stepExecutionFailedIssue.Id(): stepExecutionFailedIssue,
		stateStoreFailedIssue.Id():    stateStoreFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		hostNotSupportedIssue.Id():    hostNotSupportedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}

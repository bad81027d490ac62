// Package readme renders README markdown from gathered project information and
// decides when an existing README needs regeneration.
package readme

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/temirov/autoreadme/internal/routes"
	"github.com/temirov/autoreadme/internal/types"
	"github.com/temirov/autoreadme/internal/utils"
)

const (
	// DefaultServerURL prefixes curl examples and usage hints.
	DefaultServerURL = "http://localhost:3000"
	// DefaultAttributionURL is linked from the acknowledgments section.
	DefaultAttributionURL = "https://github.com/temirov/autoreadme"

	checksumMarkerFormat = "<!-- autoreadme:checksum:%s -->"
	apiPathMarker        = "/api/"
	codeFence            = "```"
	bashFence            = "```bash"

	scriptDev   = "dev"
	scriptStart = "start"
	scriptBuild = "build"
	scriptTest  = "test"
	scriptLint  = "lint"
)

var checksumMarkerPattern = regexp.MustCompile(`<!-- autoreadme:checksum:([0-9a-f]+) -->`)

// Settings holds rendering choices that do not come from the project itself.
type Settings struct {
	// ServerURL defaults to DefaultServerURL.
	ServerURL string
	// AttributionURL defaults to DefaultAttributionURL.
	AttributionURL string
}

func (settings Settings) serverURL() string {
	if settings.ServerURL == "" {
		return DefaultServerURL
	}
	return strings.TrimSuffix(settings.ServerURL, "/")
}

func (settings Settings) attributionURL() string {
	if settings.AttributionURL == "" {
		return DefaultAttributionURL
	}
	return settings.AttributionURL
}

type prerequisite struct {
	ecosystem string
	lines     []string
}

var ecosystemPrerequisites = []prerequisite{
	{ecosystem: types.EcosystemNode, lines: []string{
		"- [Node.js](https://nodejs.org/) (version 14 or higher)",
		"- [npm](https://www.npmjs.com/) or [yarn](https://yarnpkg.com/)",
	}},
	{ecosystem: types.EcosystemGo, lines: []string{"- [Go](https://go.dev/dl/) (version declared in go.mod)"}},
	{ecosystem: types.EcosystemPython, lines: []string{
		"- [Python](https://www.python.org/) (version 3.7 or higher)",
		"- [pip](https://pip.pypa.io/)",
	}},
	{ecosystem: types.EcosystemRust, lines: []string{"- [Rust](https://www.rust-lang.org/tools/install) with Cargo"}},
}

var ecosystemInstallCommands = map[string]string{
	types.EcosystemNode:   "npm install",
	types.EcosystemGo:     "go mod download",
	types.EcosystemPython: "pip install -r requirements.txt",
	types.EcosystemRust:   "cargo build",
}

// ChecksumMarker is the trailing comment recording the project checksum.
func ChecksumMarker(checksum string) string {
	return fmt.Sprintf(checksumMarkerFormat, checksum)
}

// ExtractChecksum returns the checksum recorded in content, if any.
func ExtractChecksum(content string) (string, bool) {
	matches := checksumMarkerPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1][1], true
}

// document accumulates README lines joined by newlines.
type document struct {
	lines []string
}

func (doc *document) add(lines ...string) {
	doc.lines = append(doc.lines, lines...)
}

func (doc *document) addf(format string, arguments ...any) {
	doc.lines = append(doc.lines, fmt.Sprintf(format, arguments...))
}

func (doc *document) command(caption string, command string) {
	doc.add("", caption, bashFence, command, codeFence)
}

func (doc *document) String() string {
	return strings.Join(doc.lines, "\n")
}

// Render produces the README markdown for info.
func Render(info types.ProjectInfo, settings Settings) string {
	doc := &document{}
	doc.addf("# %s", info.ProjectName)
	if description := projectDescription(info); description != "" {
		doc.add("", description)
	}

	renderQuickStart(doc, info)
	renderOverview(doc, info.ProjectStructure)
	renderScreenshots(doc, info.Screenshots)
	renderFeatures(doc, info.ExtractedFeatures)
	renderRoutes(doc, info.APIRoutes, settings.serverURL())
	if info.FolderStructure != "" {
		doc.add("", "## 📁 Project Structure", codeFence, info.FolderStructure, codeFence)
	}
	renderScripts(doc, info.PackageInfo)
	renderUsage(doc, info, settings.serverURL())
	if info.HasFeature(types.FeatureContributingGuide) {
		doc.add("", "## 🤝 Contributing", "",
			"1. Fork the repository",
			"2. Create your feature branch (`git checkout -b feature/AmazingFeature`)",
			"3. Commit your changes (`git commit -m 'Add some AmazingFeature'`)",
			"4. Push to the branch (`git push origin feature/AmazingFeature`)",
			"5. Open a Pull Request")
	}
	doc.add("", "## 📄 License", "")
	doc.addf("This project is licensed under the %s License - see the [LICENSE](LICENSE) file for details.", info.License)
	doc.add("", "## 🙏 Acknowledgments", "", "- Built with ❤️ using modern technologies")
	doc.addf("- README generated with [autoreadme](%s)", settings.attributionURL())
	if info.Checksum != "" {
		doc.add("", ChecksumMarker(info.Checksum))
	}
	return doc.String() + "\n"
}

func projectDescription(info types.ProjectInfo) string {
	if info.Description != "" {
		return info.Description
	}
	if info.PackageInfo != nil {
		return info.PackageInfo.Description
	}
	return ""
}

func renderQuickStart(doc *document, info types.ProjectInfo) {
	doc.add("", "## 🚀 Quick Start", "", "### Prerequisites", "", "Before you begin, ensure you have the following installed:")
	listed := false
	for _, candidate := range ecosystemPrerequisites {
		if utils.ContainsString(info.Ecosystems, candidate.ecosystem) {
			doc.add(candidate.lines...)
			listed = true
		}
	}
	if needsDocker(info) {
		doc.add("- [Docker](https://www.docker.com/)")
		listed = true
	}
	if !listed {
		doc.add("- Check the project requirements in the documentation")
	}

	if info.HasFeature(types.FeatureInstallCommands) {
		doc.add("", "### Installation")
		step := 1
		if info.GitURL != "" {
			doc.command(fmt.Sprintf("%d. **Clone the repository:**", step), "git clone "+info.GitURL)
			step++
			doc.command(fmt.Sprintf("%d. **Navigate to the project directory:**", step), "cd "+info.ProjectName)
			step++
		}
		for _, ecosystem := range info.Ecosystems {
			if installCommand, found := ecosystemInstallCommands[ecosystem]; found {
				doc.command(fmt.Sprintf("%d. **Install dependencies:**", step), installCommand)
				step++
			}
		}
		doc.add("", fmt.Sprintf("%d. **Environment Setup:**", step), bashFence,
			"# Copy environment variables",
			"cp .env.example .env",
			"",
			"# Edit the .env file with your configuration",
			"nano .env",
			codeFence)
	}

	scripts := packageScripts(info.PackageInfo)
	if len(scripts) == 0 {
		return
	}
	doc.add("", "### Development Commands")
	if _, found := scripts[scriptDev]; found {
		doc.command("**Start development server:**", "npm run dev")
	} else if _, found := scripts[scriptStart]; found {
		doc.command("**Start the application:**", "npm start")
	}
	if _, found := scripts[scriptBuild]; found {
		doc.command("**Build for production:**", "npm run build")
	}
	if _, found := scripts[scriptTest]; found {
		doc.command("**Run tests:**", "npm test")
	}
	if _, found := scripts[scriptLint]; found {
		doc.command("**Run linting:**", "npm run lint")
	}
}

func needsDocker(info types.ProjectInfo) bool {
	if info.ProjectStructure != nil && (info.ProjectStructure.Deployment.Docker || info.ProjectStructure.Deployment.DockerCompose) {
		return true
	}
	_, declared := info.PackageInfo.AllDependencies()["docker"]
	return declared
}

func renderOverview(doc *document, structure *types.ProjectStructure) {
	if structure == nil || len(structure.Applications) == 0 {
		return
	}
	doc.add("", "## 🏗️ Project Overview", "")
	doc.addf("**Project Type:** %s", structure.Type)
	if len(structure.MainTechnologies) > 0 {
		doc.add("")
		doc.addf("**Technologies:** %s", strings.Join(structure.MainTechnologies, ", "))
	}
	if len(structure.Databases) > 0 {
		doc.add("")
		doc.addf("**Databases:** %s", strings.Join(structure.Databases, ", "))
	}

	doc.add("", "### Applications")
	for _, application := range structure.Applications {
		doc.add("")
		doc.addf("#### %s (%s)", application.Name, application.Framework)
		if application.Path != "" && application.Path != "." {
			doc.addf("_Location: `%s/`_", application.Path)
		}
		doc.add("", application.Description)
		if len(application.Features) > 0 {
			doc.add("")
			for _, feature := range application.Features {
				doc.addf("- %s", feature)
			}
		}
	}

	deployment := structure.Deployment
	if !deployment.Any() {
		return
	}
	doc.add("", "### Deployment", "")
	if deployment.Docker {
		doc.add("- Docker")
	}
	if deployment.DockerCompose {
		if len(deployment.ComposeServices) > 0 {
			doc.addf("- Docker Compose (services: %s)", strings.Join(deployment.ComposeServices, ", "))
		} else {
			doc.add("- Docker Compose")
		}
	}
	if deployment.Vercel {
		doc.add("- Vercel")
	}
	if deployment.Netlify {
		doc.add("- Netlify")
	}
	if deployment.GitHubActions {
		doc.add("- GitHub Actions")
	}
}

func renderScreenshots(doc *document, screenshots []types.Screenshot) {
	if len(screenshots) == 0 {
		return
	}
	doc.add("", "## 📸 Screenshots")
	for _, screenshot := range screenshots {
		doc.add("")
		doc.addf("![%s](%s)", screenshot.Name, screenshot.Path)
	}
}

func renderFeatures(doc *document, features []string) {
	if len(features) == 0 {
		return
	}
	doc.add("", "## ✨ Features")
	for _, feature := range features {
		doc.addf("- %s", feature)
	}
}

func renderRoutes(doc *document, groups []types.MethodRoutes, serverURL string) {
	if len(groups) == 0 {
		return
	}
	doc.add("", "## 🛣️ API Endpoints")
	for _, group := range groups {
		doc.add("")
		doc.addf("### %s Routes", group.Method)
		for _, route := range group.Routes {
			doc.addf("- `%s %s`", group.Method, route.Path)
			if strings.Contains(route.Path, apiPathMarker) {
				doc.add("  " + bashFence)
				doc.addf("  curl -X %s %s%s", curlMethod(group.Method), serverURL, route.Path)
				doc.add("  " + codeFence)
			}
		}
	}
}

// curlMethod maps catch-all routes to GET so the example stays runnable.
func curlMethod(method string) string {
	if method == routes.MethodAny {
		return "GET"
	}
	return method
}

func renderScripts(doc *document, packageInfo *types.PackageInfo) {
	scripts := packageScripts(packageInfo)
	if len(scripts) == 0 {
		return
	}
	doc.add("", "## 📋 Available Scripts")
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.add("")
		doc.addf("### `npm run %s`", name)
		doc.add(bashFence, scripts[name], codeFence)
	}
}

func renderUsage(doc *document, info types.ProjectInfo, serverURL string) {
	doc.add("", "## 💻 Usage")
	scripts := packageScripts(info.PackageInfo)
	browserHint := fmt.Sprintf("2. Open your browser and navigate to `%s`", serverURL)
	if _, found := scripts[scriptStart]; found {
		doc.command("1. Start the application:", "npm start")
		doc.add("", browserHint)
		return
	}
	if _, found := scripts[scriptDev]; found {
		doc.command("1. Start the development server:", "npm run dev")
		doc.add("", browserHint)
		return
	}
	switch {
	case utils.ContainsString(info.Ecosystems, types.EcosystemGo):
		doc.command("Run the application:", "go run .")
	case utils.ContainsString(info.Ecosystems, types.EcosystemRust):
		doc.command("Run the application:", "cargo run")
	}
}

func packageScripts(packageInfo *types.PackageInfo) map[string]string {
	if packageInfo == nil {
		return nil
	}
	return packageInfo.Scripts
}

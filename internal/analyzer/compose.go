package analyzer

import (
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var composeFileNames = []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"}

type composeDocument struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Image string `yaml:"image"`
}

// composeImageDatabases maps image repository names to database labels.
var composeImageDatabases = map[string]string{
	"mongo":         databaseMongo,
	"mysql":         databaseMySQL,
	"mariadb":       databaseMariaDB,
	"postgres":      databasePostgres,
	"postgis":       databasePostgres,
	"redis":         databaseRedis,
	"elasticsearch": databaseElasticsearch,
}

// composeServices holds the parsed services of one compose file.
type composeServices struct {
	names  []string
	images []string
}

// readComposeServices parses the first compose file found in directoryPath.
func readComposeServices(fileSystem afero.Fs, directoryPath string) (composeServices, bool, error) {
	for _, fileName := range composeFileNames {
		data, exists, readError := readOptionalFile(fileSystem, directoryPath, fileName)
		if readError != nil {
			return composeServices{}, false, readError
		}
		if !exists {
			continue
		}
		var document composeDocument
		if err := yaml.Unmarshal(data, &document); err != nil {
			return composeServices{}, true, err
		}
		var parsed composeServices
		for serviceName := range document.Services {
			parsed.names = append(parsed.names, serviceName)
		}
		sort.Strings(parsed.names)
		for _, serviceName := range parsed.names {
			if image := document.Services[serviceName].Image; image != "" {
				parsed.images = append(parsed.images, image)
			}
		}
		return parsed, true, nil
	}
	return composeServices{}, false, nil
}

// imageDatabase maps an image reference such as bitnami/postgresql:16 to a database label.
func imageDatabase(image string) string {
	repository := image
	if slashIndex := strings.LastIndex(repository, "/"); slashIndex >= 0 {
		repository = repository[slashIndex+1:]
	}
	if colonIndex := strings.Index(repository, ":"); colonIndex >= 0 {
		repository = repository[:colonIndex]
	}
	repository = strings.ToLower(repository)
	if label, found := composeImageDatabases[repository]; found {
		return label
	}
	if strings.HasPrefix(repository, "postgres") {
		return databasePostgres
	}
	return ""
}

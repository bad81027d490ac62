// Package routes detects HTTP endpoint declarations in Express, Next.js, FastAPI and Go sources.
package routes

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/autoreadme/internal/scan"
	"github.com/temirov/autoreadme/internal/types"
	"github.com/temirov/autoreadme/internal/utils"
)

const (
	// MethodAny marks handlers registered without an explicit HTTP method.
	MethodAny = "ANY"

	errorDetectMessage = "route detection failed"
	rootLogFieldKey    = "root"

	nextPagesAPIMarker = "pages/api/"
	nextAppAPIMarker   = "app/api/"
	nextAPIPrefix      = "/api/"
	nextIndexSuffix    = "/index"
	nextRouteSuffix    = "/route"

	pythonExtension = ".py"
	goExtension     = ".go"
)

// RouteExtensions are the files inspected for route declarations.
var RouteExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", pythonExtension, goExtension}

var (
	expressRoutePattern = regexp.MustCompile(`(?:app|router)\.(get|post|put|delete|patch|use)\s*\(\s*['"\x60]([^'"\x60]+)['"\x60]\s*,?\s*(?:.*?)(?:function|=>|\(req,\s*res\))`)
	nextMethodPattern   = regexp.MustCompile(`export\s+(?:async\s+)?function\s+(GET|POST|PUT|DELETE|PATCH)\b`)
	fastAPIRoutePattern = regexp.MustCompile(`@(?:app|router)\.(get|post|put|delete|patch)\s*\(\s*['"\x60]([^'"\x60]+)['"\x60]`)
	goMethodPattern     = regexp.MustCompile(`\.(GET|POST|PUT|DELETE|PATCH|Get|Post|Put|Delete|Patch)\(\s*"(/[^"]*)"`)
	goHandleFuncPattern = regexp.MustCompile(`HandleFunc\(\s*"(?:(GET|POST|PUT|DELETE|PATCH)\s+)?(/[^"]*)"`)

	nextMethodOrder = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}
)

// Detector scans source files under Root for route declarations.
type Detector struct {
	Root           string
	IgnorePatterns []string
	Concurrency    int
	FileSystem     afero.Fs
	Logger         *zap.Logger
}

// Detect returns the discovered routes grouped by method in order of first
// appearance. It returns nil when nothing was found or the project could not be
// scanned.
func (detector *Detector) Detect(ctx context.Context) []types.MethodRoutes {
	logger := utils.LoggerOrNop(detector.Logger)
	relativePaths, enumerateError := scan.Enumerate(ctx, detector.Root, scan.Options{
		IgnorePatterns: detector.IgnorePatterns,
		Extensions:     RouteExtensions,
		FileSystem:     detector.FileSystem,
		Logger:         logger,
	})
	if enumerateError != nil {
		logger.Error(errorDetectMessage, zap.String(rootLogFieldKey, detector.Root), zap.Error(enumerateError))
		return nil
	}

	perFileRoutes, visitError := scan.Visit(ctx, relativePaths, scan.VisitOptions{
		Root:        detector.Root,
		FileSystem:  detector.FileSystem,
		Concurrency: detector.Concurrency,
		Logger:      logger,
	}, ExtractFile)
	if visitError != nil {
		logger.Error(errorDetectMessage, zap.String(rootLogFieldKey, detector.Root), zap.Error(visitError))
		return nil
	}

	var allRoutes []types.Route
	for _, fileRoutes := range perFileRoutes {
		allRoutes = append(allRoutes, fileRoutes...)
	}
	return GroupByMethod(allRoutes)
}

// ExtractFile returns every route declared in one file.
func ExtractFile(relativePath string, content []byte) []types.Route {
	var fileRoutes []types.Route
	switch strings.ToLower(filepath.Ext(relativePath)) {
	case pythonExtension:
		fileRoutes = append(fileRoutes, extractFastAPIRoutes(string(content))...)
	case goExtension:
		fileRoutes = append(fileRoutes, extractGoRoutes(string(content))...)
	default:
		expressRoutes, parsed := parseExpressRoutes(relativePath, content)
		if !parsed {
			expressRoutes = extractExpressRoutes(string(content))
		}
		fileRoutes = append(fileRoutes, expressRoutes...)
		if isNextAPIFile(relativePath) {
			fileRoutes = append(fileRoutes, extractNextRoutes(string(content), relativePath)...)
		}
	}
	for routeIndex := range fileRoutes {
		fileRoutes[routeIndex].File = relativePath
	}
	return fileRoutes
}

// GroupByMethod groups routes by method, keeping the order in which each method
// first appears. It returns nil for an empty input.
func GroupByMethod(allRoutes []types.Route) []types.MethodRoutes {
	if len(allRoutes) == 0 {
		return nil
	}
	var grouped []types.MethodRoutes
	methodIndexes := map[string]int{}
	for _, route := range allRoutes {
		groupIndex, exists := methodIndexes[route.Method]
		if !exists {
			groupIndex = len(grouped)
			methodIndexes[route.Method] = groupIndex
			grouped = append(grouped, types.MethodRoutes{Method: route.Method})
		}
		grouped[groupIndex].Routes = append(grouped[groupIndex].Routes, route)
	}
	return grouped
}

func extractExpressRoutes(content string) []types.Route {
	var found []types.Route
	for _, match := range expressRoutePattern.FindAllStringSubmatch(content, -1) {
		found = append(found, types.Route{Method: strings.ToUpper(match[1]), Path: match[2], Type: types.RouteTypeExpress})
	}
	return found
}

func isNextAPIFile(relativePath string) bool {
	return strings.Contains(relativePath, nextPagesAPIMarker) || strings.Contains(relativePath, nextAppAPIMarker)
}

// nextRoutePath maps pages/api/users/index.ts and app/api/users/route.ts to /api/users.
func nextRoutePath(relativePath string) string {
	routePath := relativePath
	for _, marker := range []string{nextPagesAPIMarker, nextAppAPIMarker} {
		if markerIndex := strings.Index(relativePath, marker); markerIndex >= 0 {
			routePath = nextAPIPrefix + relativePath[markerIndex+len(marker):]
			break
		}
	}
	routePath = strings.TrimSuffix(routePath, filepath.Ext(routePath))
	routePath = strings.TrimSuffix(routePath, nextRouteSuffix)
	routePath = strings.TrimSuffix(routePath, nextIndexSuffix)
	return routePath
}

func extractNextRoutes(content string, relativePath string) []types.Route {
	declaredMethods := map[string]struct{}{}
	for _, match := range nextMethodPattern.FindAllStringSubmatch(content, -1) {
		declaredMethods[match[1]] = struct{}{}
	}
	var found []types.Route
	routePath := nextRoutePath(relativePath)
	for _, method := range nextMethodOrder {
		if _, declared := declaredMethods[method]; declared {
			found = append(found, types.Route{Method: method, Path: routePath, Type: types.RouteTypeNextJS})
		}
	}
	return found
}

func extractFastAPIRoutes(content string) []types.Route {
	var found []types.Route
	for _, match := range fastAPIRoutePattern.FindAllStringSubmatch(content, -1) {
		found = append(found, types.Route{Method: strings.ToUpper(match[1]), Path: match[2], Type: types.RouteTypeFastAPI})
	}
	return found
}

// extractGoRoutes recognizes router method calls and net/http HandleFunc
// registrations, in source order.
func extractGoRoutes(content string) []types.Route {
	type positionedRoute struct {
		offset int
		route  types.Route
	}
	var positioned []positionedRoute
	for _, match := range goMethodPattern.FindAllStringSubmatchIndex(content, -1) {
		positioned = append(positioned, positionedRoute{offset: match[0], route: types.Route{
			Method: strings.ToUpper(content[match[2]:match[3]]),
			Path:   content[match[4]:match[5]],
			Type:   types.RouteTypeGo,
		}})
	}
	for _, match := range goHandleFuncPattern.FindAllStringSubmatchIndex(content, -1) {
		method := MethodAny
		if match[2] >= 0 {
			method = content[match[2]:match[3]]
		}
		positioned = append(positioned, positionedRoute{offset: match[0], route: types.Route{
			Method: method,
			Path:   content[match[4]:match[5]],
			Type:   types.RouteTypeGo,
		}})
	}
	sort.SliceStable(positioned, func(left, right int) bool {
		return positioned[left].offset < positioned[right].offset
	})
	found := make([]types.Route, 0, len(positioned))
	for _, candidate := range positioned {
		found = append(found, candidate.route)
	}
	return found
}

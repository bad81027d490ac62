//go:build cgo

package routes

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	javascript "github.com/smacker/go-tree-sitter/javascript"

	"github.com/temirov/autoreadme/internal/types"
)

const (
	javaScriptCallExpressionType   = "call_expression"
	javaScriptMemberExpressionType = "member_expression"
	javaScriptStringType           = "string"
	javaScriptTemplateStringType   = "template_string"
	javaScriptSubstitutionType     = "template_substitution"
	javaScriptFunctionField        = "function"
	javaScriptArgumentsField       = "arguments"
	javaScriptObjectField          = "object"
	javaScriptPropertyField        = "property"
	javaScriptStringDelimiters     = "'\"`"
)

var javaScriptSyntaxExtensions = map[string]struct{}{
	".js":  {},
	".jsx": {},
	".mjs": {},
	".cjs": {},
}

var expressReceivers = map[string]struct{}{
	"app":    {},
	"router": {},
}

var expressMethods = map[string]struct{}{
	"get":    {},
	"post":   {},
	"put":    {},
	"delete": {},
	"patch":  {},
	"use":    {},
}

var javaScriptHandlerNodeTypes = map[string]struct{}{
	"arrow_function":      {},
	"function":            {},
	"function_expression": {},
}

// parseExpressRoutes reads Express registrations from the JavaScript syntax
// tree. It reports false for sources the grammar does not cover so callers can
// fall back to pattern matching.
func parseExpressRoutes(relativePath string, content []byte) ([]types.Route, bool) {
	if _, supported := javaScriptSyntaxExtensions[strings.ToLower(filepath.Ext(relativePath))]; !supported {
		return nil, false
	}
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())
	tree := parser.Parse(nil, content)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	var found []types.Route
	walkExpressCalls(tree.RootNode(), content, &found)
	return found, true
}

func walkExpressCalls(node *sitter.Node, content []byte, found *[]types.Route) {
	if node == nil {
		return
	}
	if node.Type() == javaScriptCallExpressionType {
		if route, matched := expressRouteFromCall(node, content); matched {
			*found = append(*found, route)
		}
	}
	for index := 0; index < int(node.ChildCount()); index++ {
		walkExpressCalls(node.Child(index), content, found)
	}
}

func expressRouteFromCall(callNode *sitter.Node, content []byte) (types.Route, bool) {
	calleeNode := callNode.ChildByFieldName(javaScriptFunctionField)
	if calleeNode == nil || calleeNode.Type() != javaScriptMemberExpressionType {
		return types.Route{}, false
	}
	objectNode := calleeNode.ChildByFieldName(javaScriptObjectField)
	propertyNode := calleeNode.ChildByFieldName(javaScriptPropertyField)
	if objectNode == nil || propertyNode == nil {
		return types.Route{}, false
	}
	if _, isReceiver := expressReceivers[nodeText(objectNode, content)]; !isReceiver {
		return types.Route{}, false
	}
	methodName := nodeText(propertyNode, content)
	if _, isMethod := expressMethods[methodName]; !isMethod {
		return types.Route{}, false
	}

	argumentsNode := callNode.ChildByFieldName(javaScriptArgumentsField)
	if argumentsNode == nil || argumentsNode.NamedChildCount() < 2 {
		return types.Route{}, false
	}
	routePath, isLiteral := stringLiteralValue(argumentsNode.NamedChild(0), content)
	if !isLiteral || routePath == "" {
		return types.Route{}, false
	}
	for argumentIndex := 1; argumentIndex < int(argumentsNode.NamedChildCount()); argumentIndex++ {
		if _, isHandler := javaScriptHandlerNodeTypes[argumentsNode.NamedChild(argumentIndex).Type()]; isHandler {
			return types.Route{Method: strings.ToUpper(methodName), Path: routePath, Type: types.RouteTypeExpress}, true
		}
	}
	return types.Route{}, false
}

// stringLiteralValue unquotes string literals and template strings without substitutions.
func stringLiteralValue(node *sitter.Node, content []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Type() {
	case javaScriptStringType:
	case javaScriptTemplateStringType:
		for index := 0; index < int(node.NamedChildCount()); index++ {
			if node.NamedChild(index).Type() == javaScriptSubstitutionType {
				return "", false
			}
		}
	default:
		return "", false
	}
	return strings.Trim(nodeText(node, content), javaScriptStringDelimiters), true
}

func nodeText(node *sitter.Node, content []byte) string {
	return strings.TrimSpace(string(content[node.StartByte():node.EndByte()]))
}

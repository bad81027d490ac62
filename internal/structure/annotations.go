package structure

import (
	"path/filepath"
	"strings"
)

// directoryDescriptions annotates conventional directory names.
var directoryDescriptions = map[string]string{
	".github":      "# GitHub workflows and templates",
	".vscode":      "# Editor settings",
	"__tests__":    "# Test files",
	"api":          "# API routes",
	"app":          "# Application entry and routing",
	"assets":       "# Static assets",
	"bin":          "# Executable scripts",
	"cmd":          "# Command entry points",
	"components":   "# Reusable UI components",
	"config":       "# Configuration files",
	"controllers":  "# Request handlers",
	"docs":         "# Documentation",
	"e2e":          "# End-to-end tests",
	"examples":     "# Usage examples",
	"fixtures":     "# Test fixtures",
	"helpers":      "# Helper functions",
	"hooks":        "# Custom hooks",
	"images":       "# Image assets",
	"internal":     "# Private application packages",
	"lib":          "# Library code",
	"middleware":   "# Middleware",
	"migrations":   "# Database migrations",
	"models":       "# Data models",
	"pages":        "# Application pages",
	"pkg":          "# Public library packages",
	"public":       "# Public static files",
	"routes":       "# Route definitions",
	"screenshots":  "# Screenshots",
	"scripts":      "# Build and utility scripts",
	"services":     "# Business logic services",
	"src":          "# Source code",
	"static":       "# Static files",
	"store":        "# State management",
	"styles":       "# Stylesheets",
	"templates":    "# Templates",
	"test":         "# Test files",
	"tests":        "# Test files",
	"tools":        "# Development tools",
	"types":        "# Type definitions",
	"utils":        "# Utility functions",
	"vendor":       "# Vendored dependencies",
	"views":        "# View templates",
	"workflows":    "# CI workflows",
	"node_modules": "# Installed dependencies",
}

// fileDescriptions annotates well-known file names.
var fileDescriptions = map[string]string{
	".dockerignore":       "# Docker ignore rules",
	".editorconfig":       "# Editor configuration",
	".env":                "# Environment variables",
	".env.example":        "# Environment variables template",
	".eslintrc":           "# ESLint configuration",
	".eslintrc.js":        "# ESLint configuration",
	".eslintrc.json":      "# ESLint configuration",
	".gitignore":          "# Git ignore rules",
	".ignore":             "# Tool ignore rules",
	".prettierrc":         "# Prettier configuration",
	".autoreadme.yaml":    "# autoreadme configuration",
	".autoreadme.json":    "# autoreadme configuration",
	"cargo.toml":          "# Rust package manifest",
	"cargo.lock":          "# Rust dependency lock file",
	"changelog.md":        "# Release history",
	"contributing.md":     "# Contribution guidelines",
	"docker-compose.yml":  "# Multi-container setup",
	"docker-compose.yaml": "# Multi-container setup",
	"dockerfile":          "# Docker configuration",
	"go.mod":              "# Go module definition",
	"go.sum":              "# Go module checksums",
	"index.html":          "# HTML entry point",
	"index.js":            "# Entry point",
	"index.ts":            "# Entry point",
	"jest.config.js":      "# Jest configuration",
	"license":             "# License information",
	"license.md":          "# License information",
	"main.go":             "# Application entry point",
	"main.py":             "# Application entry point",
	"makefile":            "# Build automation",
	"netlify.toml":        "# Netlify configuration",
	"next.config.js":      "# Next.js configuration",
	"package-lock.json":   "# Dependency lock file",
	"package.json":        "# Project metadata and dependencies",
	"pnpm-lock.yaml":      "# Dependency lock file",
	"pyproject.toml":      "# Python project configuration",
	"readme.md":           "# Project documentation",
	"requirements.txt":    "# Python dependencies",
	"setup.py":            "# Python package setup",
	"tailwind.config.js":  "# Tailwind CSS configuration",
	"tsconfig.json":       "# TypeScript configuration",
	"vercel.json":         "# Vercel configuration",
	"vite.config.js":      "# Vite configuration",
	"vite.config.ts":      "# Vite configuration",
	"webpack.config.js":   "# Webpack configuration",
	"yarn.lock":           "# Dependency lock file",
}

// extensionDescriptions annotates files by lowercase extension including the dot.
var extensionDescriptions = map[string]string{
	".c":     "# C source",
	".cpp":   "# C++ source",
	".cs":    "# C# source",
	".css":   "# Stylesheet",
	".csv":   "# CSV data",
	".gif":   "# Image asset",
	".go":    "# Go source",
	".h":     "# C header",
	".html":  "# HTML template",
	".ico":   "# Icon asset",
	".java":  "# Java source",
	".jpeg":  "# Image asset",
	".jpg":   "# Image asset",
	".js":    "# JavaScript source",
	".json":  "# JSON data",
	".jsx":   "# React component",
	".kt":    "# Kotlin source",
	".md":    "# Markdown documentation",
	".mjs":   "# JavaScript module",
	".php":   "# PHP source",
	".png":   "# Image asset",
	".proto": "# Protocol Buffers definition",
	".py":    "# Python source",
	".rb":    "# Ruby source",
	".rs":    "# Rust source",
	".scss":  "# Sass stylesheet",
	".sh":    "# Shell script",
	".sql":   "# SQL script",
	".svg":   "# Vector image",
	".swift": "# Swift source",
	".toml":  "# TOML configuration",
	".ts":    "# TypeScript source",
	".tsx":   "# React TypeScript component",
	".txt":   "# Text file",
	".vue":   "# Vue component",
	".webp":  "# Image asset",
	".xml":   "# XML data",
	".yaml":  "# YAML configuration",
	".yml":   "# YAML configuration",
}

// Annotation returns the trailing description for an entry, or an empty string.
// Directories are looked up by name only; files fall back to their extension.
func Annotation(name string, isDirectory bool) string {
	lowerName := strings.ToLower(name)
	if isDirectory {
		return directoryDescriptions[lowerName]
	}
	if description, found := fileDescriptions[lowerName]; found {
		return description
	}
	extension := strings.ToLower(filepath.Ext(name))
	if extension == "" {
		return ""
	}
	return extensionDescriptions[extension]
}

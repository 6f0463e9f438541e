// Package testsupport provides shared fixtures for package tests: seeded
// configs, descriptor files and an opened descriptor cache.
package testsupport

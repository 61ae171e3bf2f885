// Package mock provides test doubles for the ai interfaces, allowing
// unit tests to run without external AI services.
package mock

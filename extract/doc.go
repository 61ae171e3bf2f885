// Package extract converts source document files (PDF, markdown) into
// plain text plus whatever metadata the format carries.
package extract

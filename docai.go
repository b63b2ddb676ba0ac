// Package docai provides a local documentation Q&A assistant. It scrapes
// documentation websites into per-source markdown folders, indexes each
// source into its own vector collection, and answers natural language
// questions through a retrieval-augmented pipeline backed by a locally
// running Ollama instance.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, chromem/, ollama/).
package docai

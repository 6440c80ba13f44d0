// Package chat answers questions over the stored chunks.
//
// A question is embedded, the most similar chunks are retrieved from the
// vector store, and the model is instructed to answer from that context
// alone. The sources backing every answer are returned alongside it.
package chat

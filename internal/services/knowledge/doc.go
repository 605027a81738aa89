// Package knowledge implements the knowledge-base service: ingesting files
// through the parse, transform and classify pipeline, deduplicating them by
// source and content digest, and answering queries over the stored
// documents.
package knowledge

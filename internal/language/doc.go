// Package language provides language code normalization for the pipeline.
//
// The translation stage consumes ISO 639-1 codes; the speech stage needs the
// synthesizer's own identifiers, which differ for a few languages. All
// conversions are consolidated here so translation, speech and the CLI agree
// on what a language code means.
package language

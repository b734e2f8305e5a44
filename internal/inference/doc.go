// Package inference talks to an OpenAI-compatible endpoint for the three
// model-backed capabilities: highlight analysis, subtitle generation, and
// content-plan generation.
//
// Model output is untrusted. Responses are sanitized before decoding, and
// a malformed response degrades to a deterministic synthesized result
// (analysis moments, plan items, a covering subtitle cue) instead of an
// error; the degradation is flagged so operators can see it.
package inference

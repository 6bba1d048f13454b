// Package domain implements the data-quality scoring and source-priority
// conflict-resolution engine for the parks directory.
//
// Many independent ingestion pipelines (official APIs, scrapers, manual edits,
// user submissions) write to the same park record over time. The engine is the
// policy layer deciding, for every incoming candidate, whether it may replace
// what is already stored. It is pure and stateless: every function depends only
// on its inputs, performs no I/O, and may be called concurrently without
// coordination. The caller owns storage and must serialize its read-decide-write
// sequence per entity.
//
// # Source trust tiers
//
// A free-text source label resolves to a trust priority via an ordered,
// case-insensitive substring rule table (first match wins):
//
//	"NPS"             → 100   National Park Service API
//	"RECREATION.GOV"  →  95   Recreation.gov API
//	"STATE" + "API"   →  90   state parks department APIs
//	"MANUAL"          →  80   staff manual entry
//	"EMAIL"           →  75   email submissions
//	".GOV"            →  60   scraped government sites
//	(no match)        →  40   generic web scrapes
//
// Order matters: "NPS Recreation.gov" resolves to 100, not 95. The table is
// compile-time policy data ([DefaultPriorityPolicy]); tests can inject an
// alternate [PriorityPolicy] without process-wide side effects.
//
// # Completeness scoring
//
// [ScorePolicy.Score] awards independent additive points, 100 max:
//
//	name non-empty               15
//	description > 20 chars       10
//	valid coordinates            25
//	well-formed website URL      10
//	phone or email               10
//	amenities present            10
//	activities present            5
//	boundary geometry present    10
//	source priority ≥ 90 bonus    5
//
// Every awarded criterion appears in the result's breakdown map; the total
// always equals the sum of the breakdown. Malformed values (non-numeric
// coordinates, unparseable URLs) score nothing rather than erroring.
//
// # Merge rules
//
// [MergePolicy.Decide] evaluates in strict order, first applicable wins:
//
//  1. existing priority ≥ 90 and candidate < 90 → reject (PROTECTED_HIGH_TRUST_SOURCE)
//  2. candidate priority > existing             → accept (HIGHER_PRIORITY_SOURCE)
//  3. equal priority, candidate score > existing → accept (IMPROVED_QUALITY)
//  4. otherwise                                 → reject (NO_IMPROVEMENT)
//
// Rule 1 is the engine's central correctness guarantee: authoritative data can
// never be downgraded by a lower-trust source, however complete. Priority
// strictly dominates score; score only breaks ties. Acceptance replaces the
// whole record; there is no field-level merging.
//
// # Derived fields
//
// data_source_priority and data_quality_score are recomputed on every
// evaluation and never trusted from upstream. A stored record's values
// reflect only the record currently occupying storage; the engine is
// memoryless beyond that single baseline per entity.
package domain

// Package harness runs regression scenarios against the framing driver.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: person_only
//	description: "Frames only Person nodes"
//	frame: person                  # frame name, resolved against schema_dir
//	data: fixtures/data.jsonld     # optional, relative to the scenario file
//	assertions:
//	  - type: contains_type
//	    value: Person
//	  - type: excludes_type
//	    value: Organization
//	  - type: node_count
//	    count: 1
//	  - type: path_equals
//	    path: '$["@graph"][0].name'
//	    expect: Jane
//	  - type: path_exists
//	    path: '$["@context"]'
//	  - type: digest
//	    value: "<sha256 hex>"
//
// A scenario may instead set expect_error to the error class the run must
// fail with (invalid_frame_name, missing_frame, missing_data,
// malformed_json, framing). Assertions are then optional.
//
// # Assertion Types
//
//   - contains_type: some node in the result has the given @type
//   - excludes_type: no node in the result has the given @type
//   - node_count: number of top-level nodes
//   - path_equals: JSONPath expression evaluates to the expected value
//   - path_exists: JSONPath expression matches something
//   - digest: canonical digest of the result
//
// # Golden Snapshots
//
// A passing run can be compared against a canonical JSON snapshot stored
// next to the scenario (<file>.golden) or, in Go tests, under
// testdata/golden via goldie.
package harness

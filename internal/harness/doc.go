// Package harness runs recommendation scenarios end to end and records a
// deterministic trace of every step.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	cycles:                     # optional, replaces the default registry cycles
//	  - name: "2023"
//	    companies: [다나씨엠]
//	steps:
//	  - search: "다나 씨엠"
//	    expect:
//	      case: rejected_historical
//	      result: { cycle: "2023" }
//	  - submit:
//	      company_name: 에이트테크
//	      contact_person: 김담당
//	      contact_email: kim@example.com
//	      contact_phone: 010-0000-0000
//	      sector: 복지
//	      reason: 돌봄 공백을 메움
//	    expect:
//	      case: stored
//	  - visit: true
//	  - list: 10
//	assertions:
//	  - type: trace_count
//	    action: submit
//	    count: 1
//	  - type: final_state
//	    table: recommendations
//	    where: { canonical_key: 에이트테크 }
//	    expect: { sector: 복지 }
//
// # Output Cases
//
// search completes with accepted_new, rejected_historical or
// rejected_duplicate. submit completes with stored. visit completes with
// recorded and list with listed. A rejected step completes with its
// rejection code (EMPTY_NAME, VALIDATION, REJECTED_HISTORICAL,
// REJECTED_DUPLICATE).
//
// # Assertion Types
//
//   - trace_contains: an action appears in the trace with matching args
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//   - final_state: one stored row (or the visit counter) has the expected values
//   - row_count: the recommendations table holds exactly N rows
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with a
// testutil.DeterministicClock, so traces are byte-identical across runs and
// can be compared against golden files.
package harness

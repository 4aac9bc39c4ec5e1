// Package github implements a blob source over a GitHub repository.
//
// The source lists the repository tree at a ref in one API call and
// emits a blob per matching file. File contents are never fetched
// during enumeration: each blob carries an opener that downloads the
// git blob when the payload is first needed, so a consumer that stops
// early spends no API quota on the remaining files.
//
// # Authentication
//
// A personal access token (classic or fine-grained) grants 5,000 API
// requests per hour and access to private repositories. Without a
// token the source still works for public repositories at GitHub's
// unauthenticated limit of 60 requests per hour.
//
// # Configuration
//
// Source configuration accepts the following keys:
//
//   - repo: repository in "owner/name" form. Required.
//   - ref: branch, tag or commit SHA. Default: the default branch.
//   - glob: comma-separated glob patterns for file filtering.
//     Example: "*.go,docs/*". Default: all files.
//   - token: personal access token. Optional for public repositories.
//
// # Rate Limiting
//
// Requests pass a dual-strategy rate limiter: a token bucket throttles
// proactively below the hourly quota, and the X-RateLimit-* response
// headers drive a reactive wait when the remaining quota runs low.
package github

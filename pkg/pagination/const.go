package pagination

// PageDefaultSize applies when a request names no page size.
const PageDefaultSize = 100

// PageMaxSize caps a single page.
const PageMaxSize = 10_000

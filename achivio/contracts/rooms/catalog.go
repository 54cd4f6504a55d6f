package rooms

// Prices are micro-ACHIV (6 implied decimals).
const achiv = 1_000_000

// defaultCatalog is the seeded template set. IDs are stable; gated entries
// name the streak badge tier they require.
var defaultCatalog = []Template{
	{ID: 1, Name: "Modern Desk", Price: 5 * achiv},
	{ID: 2, Name: "Motivational Poster", Price: 2 * achiv},
	{ID: 3, Name: "Trophy Shelf", Price: 8 * achiv, RequiredBadgeTier: 7},
	{ID: 4, Name: "Golden Trophy", Price: 20 * achiv, RequiredBadgeTier: 7},
	{ID: 5, Name: "Achievement Wall", Price: 12 * achiv, RequiredBadgeTier: 14},
	{ID: 6, Name: "Crystal Token Display", Price: 30 * achiv, RequiredBadgeTier: 30},
}

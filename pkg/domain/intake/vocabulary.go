package intake

// term maps a canonical tag to the phrases people use for it.
type term struct {
	Canonical string
	Phrases   []string
}

// painAreas uses the same area names as the exercise catalog.
var painAreas = []term{
	{Canonical: "neck", Phrases: []string{"neck", "cervical"}},
	{Canonical: "shoulder", Phrases: []string{"shoulder", "shoulders", "rotator cuff"}},
	{Canonical: "upper back", Phrases: []string{"upper back", "shoulder blade", "shoulder blades", "traps"}},
	{Canonical: "lower back", Phrases: []string{"lower back", "low back", "back", "spine", "lumbar"}},
	{Canonical: "elbow", Phrases: []string{"elbow", "elbows", "tennis elbow"}},
	{Canonical: "wrist", Phrases: []string{"wrist", "wrists", "carpal"}},
	{Canonical: "hand", Phrases: []string{"hand", "hands", "fingers", "finger"}},
	{Canonical: "hip", Phrases: []string{"hip", "hips"}},
	{Canonical: "knee", Phrases: []string{"knee", "knees"}},
	{Canonical: "ankle", Phrases: []string{"ankle", "ankles", "foot", "feet", "calf", "calves"}},
	{Canonical: "core", Phrases: []string{"core", "abs", "stomach"}},
}

// workTasks uses the same task names as the catalog's workTaskMatches.
var workTasks = []term{
	{Canonical: "heavy lifting", Phrases: []string{"heavy lifting", "lifting", "lift", "lifts", "carrying", "carry", "hauling"}},
	{Canonical: "overhead work", Phrases: []string{"overhead", "above my head", "reaching up", "ceiling"}},
	{Canonical: "climbing", Phrases: []string{"climbing", "climb", "ladder", "ladders", "columns"}},
	{Canonical: "welding", Phrases: []string{"welding", "weld", "welds", "welder", "torch"}},
	{Canonical: "tying rebar", Phrases: []string{"tying rebar", "rebar", "tying"}},
	{Canonical: "repetitive bending", Phrases: []string{"bending", "bend", "stooping", "crouching", "kneeling"}},
	{Canonical: "bolting up", Phrases: []string{"bolting", "bolt up", "bolts", "impact wrench", "torquing"}},
}

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "also": {}, "been": {}, "before": {},
	"being": {}, "could": {}, "doing": {}, "does": {}, "down": {}, "during": {},
	"feel": {}, "feeling": {}, "feels": {}, "from": {}, "have": {}, "having": {},
	"hurt": {}, "hurting": {}, "hurts": {}, "into": {}, "just": {}, "kind": {},
	"like": {}, "lot": {}, "lots": {}, "lately": {}, "little": {}, "mostly": {},
	"much": {}, "pain": {}, "painful": {}, "really": {}, "some": {}, "that": {},
	"them": {}, "then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"today": {}, "very": {}, "week": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "with": {}, "work": {}, "working": {}, "would": {},
	"yesterday": {}, "your": {}, "bit": {}, "days": {},
}

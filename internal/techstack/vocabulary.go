package techstack

// Reference is the vocabulary a declared technology is checked against.
var Reference = []string{
	// languages
	"python", "javascript", "typescript", "java", "c#", "c++", "c", "ruby", "php", "swift",
	"kotlin", "go", "golang", "rust", "scala", "perl", "r", "dart", "lua", "haskell", "objective-c",

	// web
	"react", "angular", "vue", "svelte", "jquery", "express", "django", "flask", "spring",
	"asp.net", "laravel", "ruby on rails", "rails", "fastapi", "next.js", "nuxt", "gatsby",

	// mobile
	"react native", "flutter", "ionic", "xamarin", "android", "ios", "swift ui", "jetpack compose",

	// databases
	"sql", "mysql", "postgresql", "postgres", "mongodb", "sqlite", "oracle", "sql server", "cassandra",
	"redis", "dynamodb", "firebase", "supabase", "neo4j", "couchdb", "mariadb",

	// cloud and devops
	"aws", "azure", "gcp", "google cloud", "docker", "kubernetes", "terraform", "jenkins",
	"circleci", "travis", "github actions", "gitlab ci", "ansible", "prometheus", "grafana",

	// ai and data
	"tensorflow", "pytorch", "scikit-learn", "keras", "pandas", "numpy", "matplotlib",
	"machine learning", "deep learning", "nlp", "computer vision", "data science",

	// tooling
	"git", "linux", "node", "npm", "yarn", "webpack", "graphql", "rest", "soap",
	"html", "css", "sass", "less", "bootstrap", "tailwind", "material ui",
}

// minSubstringLen guards short entries ("c", "r", "go") from matching inside
// unrelated words; they only count on an exact match.
const minSubstringLen = 3

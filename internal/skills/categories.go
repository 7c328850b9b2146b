package skills

import (
	"github.com/jonathan/candidate-enrichment/internal/parsing"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// knownCategories maps skill keys (see parsing.SkillKey) to categories.
// Cloud platforms and infrastructure are filed under tool.
var knownCategories = buildCategoryTable(map[types.SkillCategory][]string{
	types.CategoryLanguage: {
		"python", "javascript", "typescript", "java", "c++", "c#", "c", "go", "rust", "php", "ruby",
		"swift", "kotlin", "scala", "r", "matlab", "perl", "bash", "shell", "powershell",
		"html", "css", "sql", "dart", "elixir", "clojure", "haskell", "erlang", "objective-c", "lua",
	},
	types.CategoryFramework: {
		"react", "angular", "vue", "django", "flask", "spring", "express", "fastapi",
		"laravel", "rails", "asp.net", "node.js", "next.js", "nuxt.js", "svelte",
		"bootstrap", "tailwind", "material-ui", "antd", "jquery", "lodash",
		"tensorflow", "pytorch", "scikit-learn", "gin", "echo", "fiber",
	},
	types.CategoryDatabase: {
		"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "cassandra",
		"dynamodb", "sqlite", "oracle", "sql server", "mariadb", "neo4j",
		"influxdb", "couchdb", "firebase", "supabase", "nosql",
	},
	types.CategoryTool: {
		"aws", "azure", "gcp", "heroku", "digitalocean", "kubernetes", "docker", "terraform",
		"ansible", "jenkins", "gitlab", "github actions", "circleci", "netlify", "vercel",
		"git", "github", "bitbucket", "jira", "confluence", "figma", "postman", "swagger",
		"openapi", "graphql", "rest", "ci/cd",
	},
})

func buildCategoryTable(groups map[types.SkillCategory][]string) map[string]types.SkillCategory {
	table := make(map[string]types.SkillCategory)
	for category, names := range groups {
		for _, name := range names {
			table[parsing.SkillKey(name)] = category
		}
	}
	return table
}

// Categorize returns the category for a skill name, or ok=false when the
// name is not in the built-in tables.
func Categorize(name string) (types.SkillCategory, bool) {
	c, ok := knownCategories[parsing.SkillKey(name)]
	return c, ok
}

package core

// DefaultCategories is the starter category list used when the remote object
// does not exist yet.
var DefaultCategories = []string{
	"Frontend",
	"Backend Architecture",
	"DevOps",
	"Databases",
	"Algorithms",
	"Tooling",
	"Policies & Standards",
	"Misc",
}

// DefaultDocument returns the built-in starter dataset. It is uploaded once
// on first use to establish the remote object, then never consulted again
// unless the remote object disappears.
func DefaultDocument() *Document {
	return &Document{
		Categories: append([]string(nil), DefaultCategories...),
		Items: []Entry{
			{
				ID:       "1",
				Title:    "React Hooks Ground Rules",
				Category: "Frontend",
				Tags:     []string{"React", "Hooks", "Performance"},
				Content: `# React Hooks Ground Rules

Follow the rules of hooks when building React screens.

## 1. Call hooks at the top level only
Never call a hook inside a loop, condition or nested function.

## 2. useMemo and useCallback
Do not reach for them by reflex. Memoize only after a profile shows a real
bottleneck.

` + "```javascript\nconst memoizedValue = useMemo(() => computeExpensiveValue(a, b), [a, b]);\n```\n",
				CreatedAt: "2023-10-01T09:00:00Z",
				UpdatedAt: "2023-10-01T09:00:00Z",
				Author:    "admin",
			},
			{
				ID:       "2",
				Title:    "Nginx Static Asset Server Template",
				Category: "DevOps",
				Tags:     []string{"Nginx", "Server", "Config"},
				Content: `Standard template for serving static assets with Nginx.

Ensure gzip is enabled for text resources.

` + "```nginx\nserver {\n    listen 80;\n    server_name example.com;\n\n    location / {\n        root /usr/share/nginx/html;\n        index index.html index.htm;\n        try_files $uri $uri/ /index.html;\n    }\n}\n```\n",
				CreatedAt: "2023-10-05T14:30:00Z",
				UpdatedAt: "2023-10-06T10:00:00Z",
				Author:    "ops",
			},
			{
				ID:        "3",
				Title:     "PostgreSQL Query Tuning Checklist",
				Category:  "Databases",
				Tags:      []string{"SQL", "PostgreSQL", "Performance"},
				Content:   "Run EXPLAIN ANALYZE before guessing. Check whether the planner actually hits the indexes you think it does.",
				CreatedAt: "2023-10-10T11:15:00Z",
				UpdatedAt: "2023-10-10T11:15:00Z",
				Author:    "dba",
			},
			{
				ID:        "4",
				Title:     "Secure Web Development Baseline v2.0",
				Category:  "Policies & Standards",
				Tags:      []string{"Security", "XSS", "CSRF"},
				Content:   "All user input must be sanitized. Never pass sensitive values in the URL.",
				CreatedAt: "2023-11-01T08:00:00Z",
				UpdatedAt: "2023-11-01T08:00:00Z",
				Author:    "security",
			},
		},
	}
}

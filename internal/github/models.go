package github

// User is the subset of GET /users/{username} the profile page shows.
// Nullable upstream fields are pointers.
type User struct {
	Login           string  `json:"login"`
	ID              int64   `json:"id"`
	AvatarURL       string  `json:"avatar_url"`
	HTMLURL         string  `json:"html_url"`
	Name            *string `json:"name"`
	Company         *string `json:"company"`
	Blog            string  `json:"blog"`
	Location        *string `json:"location"`
	Email           *string `json:"email"`
	Bio             *string `json:"bio"`
	TwitterUsername *string `json:"twitter_username"`
	PublicRepos     int     `json:"public_repos"`
	PublicGists     int     `json:"public_gists"`
	Followers       int     `json:"followers"`
	Following       int     `json:"following"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type Repository struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	HTMLURL         string   `json:"html_url"`
	Description     *string  `json:"description"`
	Fork            bool     `json:"fork"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	PushedAt        string   `json:"pushed_at"`
	StargazersCount int      `json:"stargazers_count"`
	WatchersCount   int      `json:"watchers_count"`
	ForksCount      int      `json:"forks_count"`
	Language        *string  `json:"language"`
	Topics          []string `json:"topics"`
	Visibility      string   `json:"visibility"`
}

type Profile struct {
	User         User         `json:"user"`
	Repositories []Repository `json:"repositories"`
}

type Result struct {
	Success bool     `json:"success"`
	Data    *Profile `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Status  int      `json:"-"`
}

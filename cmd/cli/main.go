package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "jobs":
		handleJobs(args)
	case "company":
		handleCompany(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: jobboard auth <register|login|logout|who>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "register":
		registerCompany(args[1:])
	case "login":
		loginCompany(args[1:])
	case "logout":
		logout()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", subCmd)
	}
}

func handleJobs(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: jobboard jobs <list|get>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listJobs(args[1:])
	case "get":
		getJob(args[1:])
	default:
		fmt.Printf("unknown jobs command: %s\n", subCmd)
	}
}

func handleCompany(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: jobboard company <jobs|post|applicants|status|visibility>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "jobs":
		listPostedJobs(args[1:])
	case "post":
		postJob(args[1:])
	case "applicants":
		listApplicants(args[1:])
	case "status":
		changeStatus(args[1:])
	case "visibility":
		toggleVisibility(args[1:])
	default:
		fmt.Printf("unknown company command: %s\n", subCmd)
	}
}

// envelope matches the API response wrapper
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

// Auth commands
func registerCompany(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "company name")
	email := fs.String("email", "", "company email")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *name == "" || *email == "" || *password == "" {
		fmt.Println("Error: name, email, and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{
		"name":     *name,
		"email":    *email,
		"password": *password,
	}

	env, err := postJSON("/company/register", payload, false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if env.Success {
		fmt.Printf("✓ Company registered: %s\n", *email)
		saveTokenFromData(env.Data)
	} else {
		fmt.Printf("✗ Registration failed: %s\n", env.Message)
	}
}

func loginCompany(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "company email")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "password": *password}
	env, err := postJSON("/company/login", payload, false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if env.Success {
		saveTokenFromData(env.Data)
		fmt.Printf("✓ Logged in as: %s\n", *email)
	} else {
		fmt.Printf("✗ Login failed: %s\n", env.Message)
	}
}

func logout() {
	os.Remove(tokenFile())
	fmt.Println("✓ Logged out")
}

func whoAmI() {
	env, err := getJSON("/company/company", true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !env.Success {
		fmt.Println("Not logged in")
		return
	}

	var data struct {
		Company struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"company"`
	}
	json.Unmarshal(env.Data, &data)
	fmt.Printf("✓ Logged in as %s (%s)\n", data.Company.Name, data.Company.Email)
}

// Public job commands
func listJobs(args []string) {
	_ = args
	env, err := getJSON("/jobs", false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !env.Success {
		fmt.Printf("✗ %s\n", env.Message)
		return
	}

	var data struct {
		Jobs []struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Location string `json:"location"`
			Level    string `json:"level"`
			Company  struct {
				Name string `json:"name"`
			} `json:"company"`
		} `json:"jobs"`
	}
	json.Unmarshal(env.Data, &data)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tLOCATION\tLEVEL")
	for _, j := range data.Jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", j.ID, j.Title, j.Company.Name, j.Location, j.Level)
	}
	w.Flush()
}

func getJob(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: jobboard jobs get <job-id>")
		return
	}

	env, err := getJSON("/jobs/"+args[0], false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !env.Success {
		fmt.Printf("✗ %s\n", env.Message)
		return
	}

	var pretty bytes.Buffer
	json.Indent(&pretty, env.Data, "", "  ")
	fmt.Println(pretty.String())
}

// Company commands
func listPostedJobs(args []string) {
	_ = args
	env, err := getJSON("/company/list-jobs", true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !env.Success {
		fmt.Printf("✗ %s\n", env.Message)
		return
	}

	var data struct {
		Jobs []struct {
			ID         string `json:"id"`
			Title      string `json:"title"`
			Visible    bool   `json:"visible"`
			Applicants int    `json:"applicants"`
		} `json:"jobs"`
	}
	json.Unmarshal(env.Data, &data)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tVISIBLE\tAPPLICANTS")
	for _, j := range data.Jobs {
		fmt.Fprintf(w, "%s\t%s\t%v\t%d\n", j.ID, j.Title, j.Visible, j.Applicants)
	}
	w.Flush()
}

func postJob(args []string) {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	title := fs.String("title", "", "job title")
	description := fs.String("description", "", "job description")
	location := fs.String("location", "", "job location")
	salary := fs.Int64("salary", 0, "annual salary")
	level := fs.String("level", "", "seniority level")
	category := fs.String("category", "", "job category")

	fs.Parse(args)

	if *title == "" || *description == "" || *location == "" {
		fmt.Println("Error: title, description, and location are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]any{
		"title":       *title,
		"description": *description,
		"location":    *location,
		"salary":      *salary,
		"level":       *level,
		"category":    *category,
	}

	env, err := postJSON("/company/post-job", payload, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if env.Success {
		fmt.Printf("✓ Job posted: %s\n", *title)
	} else {
		fmt.Printf("✗ %s\n", env.Message)
	}
}

func listApplicants(args []string) {
	_ = args
	env, err := getJSON("/company/applicants", true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !env.Success {
		fmt.Printf("✗ %s\n", env.Message)
		return
	}

	var data struct {
		Applications []struct {
			ID        string `json:"id"`
			Status    string `json:"status"`
			Applicant struct {
				Name string `json:"name"`
			} `json:"applicant"`
			Job struct {
				Title string `json:"title"`
			} `json:"job"`
		} `json:"applications"`
	}
	json.Unmarshal(env.Data, &data)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAPPLICANT\tJOB\tSTATUS")
	for _, a := range data.Applications {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Applicant.Name, a.Job.Title, a.Status)
	}
	w.Flush()
}

func changeStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	id := fs.String("id", "", "application id")
	status := fs.String("status", "", "Accepted or Rejected")

	fs.Parse(args)

	if *id == "" || *status == "" {
		fmt.Println("Error: id and status are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"id": *id, "status": *status}
	env, err := postJSON("/company/change-status", payload, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if env.Success {
		fmt.Printf("✓ Application %s marked %s\n", *id, *status)
	} else {
		fmt.Printf("✗ %s\n", env.Message)
	}
}

func toggleVisibility(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: jobboard company visibility <job-id>")
		return
	}

	payload := map[string]string{"id": args[0]}
	env, err := postJSON("/company/change-visiblity", payload, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if env.Success {
		fmt.Printf("✓ Visibility toggled for job %s\n", args[0])
	} else {
		fmt.Printf("✗ %s\n", env.Message)
	}
}

// Helper functions
func getAPIURL() string {
	if url := os.Getenv("JOBBOARD_API"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func getJSON(path string, authed bool) (*envelope, error) {
	req, err := http.NewRequest("GET", getAPIURL()+path, nil)
	if err != nil {
		return nil, err
	}
	if authed {
		addAuthHeader(req)
	}
	return doRequest(req)
}

func postJSON(path string, payload any, authed bool) (*envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("POST", getAPIURL()+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		addAuthHeader(req)
	}
	return doRequest(req)
}

func doRequest(req *http.Request) (*envelope, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("unexpected response: %w", err)
	}
	return &env, nil
}

func saveTokenFromData(data json.RawMessage) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Token == "" {
		return
	}
	os.MkdirAll(os.Getenv("HOME")+"/.jobboard", 0700)
	os.WriteFile(tokenFile(), []byte(payload.Token), 0600)
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.jobboard/token"
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	token := loadToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`JobBoard CLI

Usage:
  jobboard <command> [options]

Commands:
  auth     Company authentication (register, login, logout, who)
  jobs     Public job board (list, get)
  company  Company operations (jobs, post, applicants, status, visibility)
  help     Show this help message

Environment Variables:
  JOBBOARD_API    API endpoint (default: http://localhost:8080)

Examples:
  jobboard auth register -name "Acme" -email hr@acme.dev -password secret123
  jobboard auth login -email hr@acme.dev -password secret123
  jobboard jobs list
  jobboard company post -title "Go Engineer" -description "..." -location Remote -salary 140000 -level Senior -category Engineering
`)
}

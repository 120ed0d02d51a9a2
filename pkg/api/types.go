package api

type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

type Health struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

// Greeting is the JSON form of the greeting, served when the client
// sends Accept: application/json.
type Greeting struct {
	Message string `json:"message"`
}

type ErrorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

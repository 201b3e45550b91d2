package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	username     string
	password     string
	recordIDs    map[string]uint
	otherTokens  map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:          tc,
		recordIDs:   make(map[string]uint),
		otherTokens: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a CareVault server is running$`, s.aServerIsRunning)
	sc.Step(`^an account "([^"]*)" exists with password "([^"]*)"$`, s.anAccountExists)
	sc.Step(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, s.iAmLoggedIn)

	// Authentication steps
	sc.Step(`^I sign up as "([^"]*)" with password "([^"]*)"$`, s.iSignUp)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogIn)
	sc.Step(`^I change my password from "([^"]*)" to "([^"]*)"$`, s.iChangeMyPassword)
	sc.Step(`^I ask who I am$`, s.iAskWhoIAm)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^I should receive a bearer token$`, s.iShouldReceiveABearerToken)
	sc.Step(`^the response should include username "([^"]*)"$`, s.theResponseShouldIncludeUsername)

	// Patient record steps
	sc.Step(`^I create a patient record named "([^"]*)":$`, s.iCreateAPatientRecord)
	sc.Step(`^"([^"]*)" owns a patient record named "([^"]*)"$`, s.otherUserOwnsARecord)
	sc.Step(`^I list my patient records$`, s.iListMyRecords)
	sc.Step(`^I search my patient records for "([^"]*)"$`, s.iSearchMyRecords)
	sc.Step(`^I count my patient records$`, s.iCountMyRecords)
	sc.Step(`^I fetch the patient record named "([^"]*)"$`, s.iFetchTheRecord)
	sc.Step(`^I delete the patient record named "([^"]*)"$`, s.iDeleteTheRecord)
	sc.Step(`^the response should contain (\d+) records?$`, s.theResponseShouldContainRecords)
	sc.Step(`^the count should be (\d+)$`, s.theCountShouldBe)
}

// Background steps

func (s *StepsContext) aServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) anAccountExists(username, password string) error {
	if err := s.iSignUp(username, password); err != nil {
		return err
	}
	// An already-registered account is fine for background setup.
	if s.response.StatusCode != http.StatusCreated && s.response.StatusCode != http.StatusConflict {
		return fmt.Errorf("signup failed with status %d: %s", s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iAmLoggedIn(username, password string) error {
	if err := s.anAccountExists(username, password); err != nil {
		return err
	}
	if err := s.iLogIn(username, password); err != nil {
		return err
	}
	return s.iShouldReceiveABearerToken()
}

// Authentication steps

func (s *StepsContext) iSignUp(username, password string) error {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	return s.doRequest("POST", "/authn/signup", bytes.NewReader(body), "")
}

func (s *StepsContext) iLogIn(username, password string) error {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err := s.doRequest("POST", "/authn/login", bytes.NewReader(body), ""); err != nil {
		return err
	}

	s.username = username
	s.password = password

	// If successful, extract token
	if s.response.StatusCode == http.StatusOK {
		var result map[string]string
		if err := json.Unmarshal(s.responseBody, &result); err == nil {
			s.authToken = result["token"]
		}
	}

	return nil
}

func (s *StepsContext) iChangeMyPassword(current, next string) error {
	req, err := http.NewRequest("PUT", s.tc.ServerURL+"/authn/password", strings.NewReader(next))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.username, current)

	return s.send(req)
}

func (s *StepsContext) iAskWhoIAm() error {
	return s.doRequest("GET", "/whoami", nil, s.authToken)
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iShouldReceiveABearerToken() error {
	var result map[string]string
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}

	if result["token"] == "" {
		return fmt.Errorf("missing 'token' field in response")
	}
	if result["expires_at"] == "" {
		return fmt.Errorf("missing 'expires_at' field in response")
	}

	s.authToken = result["token"]
	return nil
}

func (s *StepsContext) theResponseShouldIncludeUsername(username string) error {
	var result map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if result["username"] != username {
		return fmt.Errorf("expected username %q, got %v", username, result["username"])
	}
	return nil
}

// Patient record steps

func (s *StepsContext) iCreateAPatientRecord(name string, body *godog.DocString) error {
	if err := s.doRequest("POST", "/patients", strings.NewReader(body.Content), s.authToken); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		var record struct {
			ID uint `json:"id"`
		}
		if err := json.Unmarshal(s.responseBody, &record); err != nil {
			return fmt.Errorf("failed to parse created record: %w", err)
		}
		s.recordIDs[name] = record.ID
	}

	return nil
}

// otherUserOwnsARecord creates a record under a different account so that
// cross-account access can be exercised.
func (s *StepsContext) otherUserOwnsARecord(username, name string) error {
	password := "password-" + username

	// Preserve the caller's session across the setup requests.
	savedToken := s.authToken
	savedUser := s.username
	savedPassword := s.password
	defer func() {
		s.authToken = savedToken
		s.username = savedUser
		s.password = savedPassword
	}()

	if token, ok := s.otherTokens[username]; ok {
		s.authToken = token
	} else {
		if err := s.anAccountExists(username, password); err != nil {
			return err
		}
		if err := s.iLogIn(username, password); err != nil {
			return err
		}
		if err := s.iShouldReceiveABearerToken(); err != nil {
			return err
		}
		s.otherTokens[username] = s.authToken
	}

	record := fmt.Sprintf(`{"first_name": "%s", "last_name": "Recordholder", "date_of_birth": "1970-01-01"}`, name)
	if err := s.iCreateAPatientRecord(name, &godog.DocString{Content: record}); err != nil {
		return err
	}
	return s.theResponseStatusShouldBe(http.StatusCreated)
}

func (s *StepsContext) iListMyRecords() error {
	return s.doRequest("GET", "/patients", nil, s.authToken)
}

func (s *StepsContext) iSearchMyRecords(term string) error {
	return s.doRequest("GET", "/patients?search="+term, nil, s.authToken)
}

func (s *StepsContext) iCountMyRecords() error {
	return s.doRequest("GET", "/patients?count=true", nil, s.authToken)
}

func (s *StepsContext) iFetchTheRecord(name string) error {
	id, ok := s.recordIDs[name]
	if !ok {
		return fmt.Errorf("no known record named %q", name)
	}
	return s.doRequest("GET", fmt.Sprintf("/patients/%d", id), nil, s.authToken)
}

func (s *StepsContext) iDeleteTheRecord(name string) error {
	id, ok := s.recordIDs[name]
	if !ok {
		return fmt.Errorf("no known record named %q", name)
	}
	return s.doRequest("DELETE", fmt.Sprintf("/patients/%d", id), nil, s.authToken)
}

func (s *StepsContext) theResponseShouldContainRecords(expected int) error {
	var records []map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &records); err != nil {
		return fmt.Errorf("failed to parse record list: %w", err)
	}
	if len(records) != expected {
		return fmt.Errorf("expected %d records, got %d", expected, len(records))
	}
	return nil
}

func (s *StepsContext) theCountShouldBe(expected int) error {
	var result map[string]int
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse count response: %w", err)
	}
	if result["count"] != expected {
		return fmt.Errorf("expected count %d, got %d", expected, result["count"])
	}
	return nil
}

// Helpers

func (s *StepsContext) doRequest(method, path string, body io.Reader, token string) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(req)
}

func (s *StepsContext) send(req *http.Request) error {
	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return err
}

package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"

	"github.com/miyata/campdash/backend/internal/auth"
	"github.com/miyata/campdash/backend/internal/drive"
	"github.com/miyata/campdash/backend/internal/handler"
	"github.com/miyata/campdash/backend/internal/listing"
	"github.com/miyata/campdash/backend/internal/localstore"
	"github.com/miyata/campdash/backend/internal/secret"
)

// App holds the dependencies for the Lambda function.
type App struct {
	fileHandler      *handler.FileHandler
	folderHandler    *handler.FolderHandler
	authHandler      *handler.AuthHandler
	apiGatewaySecret string
}

// NewApp initializes the application dependencies. Missing credentials are
// not fatal: the listing pipeline degrades to mock mode, so the app must
// come up cleanly with zero configuration.
func NewApp(ctx context.Context) *App {
	// ---------- Secret Resolver ----------
	var resolver secret.Resolver
	if os.Getenv("DEV_MODE") == "true" {
		resolver = secret.NewEnvResolver()
		fmt.Println("Using EnvResolver (DEV_MODE=true)")
	} else {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			panic(fmt.Sprintf("unable to load SDK config, %v", err))
		}
		resolver = secret.NewSSMResolver(ssm.NewFromConfig(cfg))
		fmt.Println("Using SSMResolver (SSM Parameter Store)")
	}

	googleClientSecretParam := os.Getenv("GOOGLE_CLIENT_SECRET_PARAM")
	if googleClientSecretParam == "" {
		googleClientSecretParam = "/campdash/google-client-secret"
	}
	googleClientSecret, err := resolver.GetSecret(ctx, googleClientSecretParam)
	if err != nil {
		log.Printf("WARNING: failed to resolve GOOGLE_CLIENT_SECRET: %v", err)
	}

	serviceAccountKeyParam := os.Getenv("SERVICE_ACCOUNT_KEY_PARAM")
	if serviceAccountKeyParam == "" {
		serviceAccountKeyParam = "/campdash/service-account-key"
	}
	serviceAccountKey, err := resolver.GetSecret(ctx, serviceAccountKeyParam)
	if err != nil {
		log.Printf("WARNING: failed to resolve SERVICE_ACCOUNT_KEY: %v", err)
	}

	apiGatewaySecretParam := os.Getenv("API_GATEWAY_SECRET_PARAM")
	if apiGatewaySecretParam == "" {
		apiGatewaySecretParam = "/campdash/api-gateway-secret"
	}
	apiGatewaySecret, err := resolver.GetSecret(ctx, apiGatewaySecretParam)
	if err != nil {
		log.Printf("WARNING: failed to resolve API_GATEWAY_SECRET: %v", err)
	}

	// ---------- Drive credentials ----------
	creds := drive.ServiceCredentials{
		Email:      os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		PrivateKey: []byte(serviceAccountKey),
	}
	fmt.Printf("Drive backend mode without bearer: %s\n", drive.DetectMode(creds, ""))

	// ---------- OAuth2 Config ----------
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")
	if redirectURL == "" {
		frontendURL := os.Getenv("FRONTEND_URL")
		if frontendURL == "" {
			frontendURL = "http://localhost:3000"
		}
		redirectURL = frontendURL + "/api/auth/callback"
	}

	oauthConfig := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: googleClientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			gdrive.DriveReadonlyScope,
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	// ---------- Services ----------
	store := localstore.NewStore()
	listingService := listing.NewService(creds, store, listing.DriveFactory(creds))
	authService := auth.NewService(oauthConfig)

	return &App{
		fileHandler:      handler.NewFileHandler(listingService),
		folderHandler:    handler.NewFolderHandler(listingService),
		authHandler:      handler.NewAuthHandler(authService),
		apiGatewaySecret: apiGatewaySecret,
	}
}

// HandleRequest routes API Gateway requests to the appropriate handler.
func (app *App) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := req.Path
	method := req.HTTPMethod

	fmt.Printf("Request: %s %s\n", method, path)

	// CORS Preflight
	if method == "OPTIONS" {
		return corsResponse(events.APIGatewayProxyResponse{StatusCode: 204}), nil
	}

	// Security: Verify Request Origin (CloudFront only)
	if os.Getenv("DEV_MODE") != "true" && app.apiGatewaySecret != "" {
		if req.Headers["X-Origin-Verify"] != app.apiGatewaySecret && req.Headers["x-origin-verify"] != app.apiGatewaySecret {
			fmt.Printf("Security Block: Missing or invalid X-Origin-Verify header\n")
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusForbidden,
				Body:       "Forbidden: Access denied",
			}, nil
		}
	}

	// Strip /api prefix if present (for CloudFront proxying)
	if strings.HasPrefix(path, "/api") {
		path = strings.TrimPrefix(path, "/api")
	}

	if req.PathParameters == nil {
		req.PathParameters = make(map[string]string)
	}

	// /files
	if path == "/files" && method == "GET" {
		return corsResponse(must(app.fileHandler.ListFiles(ctx, req))), nil
	}
	// /files/{fileId}/content
	if strings.HasPrefix(path, "/files/") && strings.HasSuffix(path, "/content") && method == "GET" {
		parts := strings.Split(strings.Trim(path, "/"), "/")
		if len(parts) == 3 {
			req.PathParameters["fileId"] = parts[1]
			return corsResponse(must(app.fileHandler.GetContent(ctx, req))), nil
		}
	}

	// /oauth
	if path == "/oauth/content" && method == "GET" {
		return corsResponse(must(app.fileHandler.OAuthContent(ctx, req))), nil
	}

	// /folders
	if path == "/folders" && method == "POST" {
		return corsResponse(must(app.folderHandler.RegisterFolder(ctx, req))), nil
	}

	// /auth
	if path == "/auth/exchange" && method == "POST" {
		return corsResponse(must(app.authHandler.Exchange(ctx, req))), nil
	}
	if path == "/auth/refresh" && method == "POST" {
		return corsResponse(must(app.authHandler.Refresh(ctx, req))), nil
	}

	return corsResponse(events.APIGatewayProxyResponse{
		StatusCode: http.StatusNotFound,
		Body:       fmt.Sprintf("Not Found: %s %s", method, path),
	}), nil
}

// corsResponse adds CORS headers to an API Gateway response.
func corsResponse(resp events.APIGatewayProxyResponse) events.APIGatewayProxyResponse {
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	resp.Headers["Access-Control-Allow-Origin"] = os.Getenv("FRONTEND_URL")
	if resp.Headers["Access-Control-Allow-Origin"] == "" {
		resp.Headers["Access-Control-Allow-Origin"] = "http://localhost:3000"
	}
	resp.Headers["Access-Control-Allow-Credentials"] = "true"
	resp.Headers["Access-Control-Allow-Methods"] = "GET,POST,OPTIONS"
	resp.Headers["Access-Control-Allow-Headers"] = "Content-Type,Authorization"
	return resp
}

// must unwraps a handler response, ignoring the error.
func must(resp events.APIGatewayProxyResponse, err error) events.APIGatewayProxyResponse {
	if err != nil {
		fmt.Printf("Handler error: %v\n", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError, Body: "Internal Server Error"}
	}
	return resp
}

// Command yachtctl runs the YachtExcel fleet management backend.
//
// The server exposes a JSON API over yachts, crew, equipment and inventory,
// forwards documents to Google Document AI and maps the extracted fields,
// asks several AI providers the same question and reports their consensus,
// and sends e-mail and WhatsApp notifications.
//
// # Quick Start
//
//	# Generate a data key for encrypting stored provider API keys
//	export YACHTEXCEL_DATA_KEY="$(yachtctl data-key generate)"
//
//	# Run database migrations
//	yachtctl db migrate
//
//	# Give the first administrator a role
//	yachtctl role assign 6c1f... captain@example.com superadmin
//
//	# Start the server
//	yachtctl server
//
// # Environment Variables
//
//   - DATABASE_URL: postgres:// URL, or sqlite://<path> for development
//   - YACHTEXCEL_DATA_KEY: Base64-encoded 256-bit data encryption key
//   - YACHTEXCEL_JWT_SECRET: HS256 secret of the auth platform's access tokens
//   - YACHTEXCEL_LOG_LEVEL: debug, info, warn or error
//   - YACHTEXCEL_DOCUMENT_AI_TOKEN: bearer token for Document AI
//   - SENDGRID_API_KEY, WHATSAPP_ACCESS_TOKEN, WHATSAPP_PHONE_NUMBER_ID
//   - PORT, BIND_ADDRESS: listen address (default 0.0.0.0:8080)
//
// Settings that may change at runtime live in yachtexcel.yml, see
// "yachtctl configuration show".
package main

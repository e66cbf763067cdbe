package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// UploaderSettings configures the command line uploader.
type UploaderSettings struct {
	APIURL         string
	AdminURLSecret string
	Email          string
	Password       string

	GeocoderURL      string
	GeocoderLanguage string
	HEICCommand      string
	ImageFormat      string
}

func LoadUploader() (*UploaderSettings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	for _, key := range []string{"UPLOADER_API_URL", "UPLOADER_EMAIL", "UPLOADER_PASSWORD"} {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_LANGUAGE", "fr")
	v.SetDefault("HEIC_CONVERT_COMMAND", "heif-convert")
	v.SetDefault("UPLOADER_IMAGE_FORMAT", "jpeg")

	return &UploaderSettings{
		APIURL:         strings.TrimSuffix(v.GetString("UPLOADER_API_URL"), "/"),
		AdminURLSecret: strings.Trim(v.GetString("ADMIN_URL_SECRET"), "/"),
		Email:          v.GetString("UPLOADER_EMAIL"),
		Password:       v.GetString("UPLOADER_PASSWORD"),

		GeocoderURL:      v.GetString("GEOCODER_URL"),
		GeocoderLanguage: v.GetString("GEOCODER_LANGUAGE"),
		HEICCommand:      v.GetString("HEIC_CONVERT_COMMAND"),
		ImageFormat:      v.GetString("UPLOADER_IMAGE_FORMAT"),
	}, nil
}

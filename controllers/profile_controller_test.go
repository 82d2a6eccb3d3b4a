package controllers

import (
	"testing"
	"time"

	"minehub/models"
	"minehub/structs"
)

func TestProfileUpdateFieldsPartialBody(t *testing.T) {
	now := time.Now()

	// Only the bio is sent; the other fields must not be touched
	set := profileUpdateFields(structs.UpdateProfileRequest{Bio: "Night miner"}, now)

	if set["profile.bio"] != "Night miner" {
		t.Errorf("Expected bio to be set, got %v", set["profile.bio"])
	}
	if _, present := set["profile.displayName"]; present {
		t.Error("Display name missing from the body should not be written")
	}
	if _, present := set["profile.avatarUrl"]; present {
		t.Error("Avatar missing from the body should not be written")
	}
	if set["updatedAt"] != now {
		t.Error("updatedAt should always be written")
	}
}

func TestProfileUpdateFieldsFullBody(t *testing.T) {
	set := profileUpdateFields(structs.UpdateProfileRequest{
		DisplayName: "Miner",
		Bio:         "Digging daily",
		AvatarURL:   "https://example.com/a.png",
	}, time.Now())

	if set["profile.displayName"] != "Miner" ||
		set["profile.bio"] != "Digging daily" ||
		set["profile.avatarUrl"] != "https://example.com/a.png" {
		t.Errorf("Expected all provided fields to be written, got %v", set)
	}
}

func TestProfileComplete(t *testing.T) {
	empty := models.UserProfile{}

	if profileComplete(empty, structs.UpdateProfileRequest{DisplayName: "Miner"}) {
		t.Error("Name alone should not complete the profile")
	}
	if !profileComplete(empty, structs.UpdateProfileRequest{DisplayName: "Miner", Bio: "hi"}) {
		t.Error("Name and bio together should complete the profile")
	}

	// A bio-only update on a profile that already has a name completes it
	named := models.UserProfile{DisplayName: "Miner"}
	if !profileComplete(named, structs.UpdateProfileRequest{Bio: "hi"}) {
		t.Error("Existing name plus new bio should complete the profile")
	}
	if profileComplete(named, structs.UpdateProfileRequest{AvatarURL: "x"}) {
		t.Error("Avatar-only update should not complete a profile without a bio")
	}
}

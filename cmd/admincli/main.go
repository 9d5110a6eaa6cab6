// Package main provides the admin CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/Balogunolalere/myoozik/internal/api/rest"
)

var (
	app    = kingpin.New("myoozik-admincli", "myoozik admin client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").Envar("MYOOZIK_SERVER").String()

	// list command
	listCmd = app.Command("list", "List all playlists")

	// show command
	showCmd = app.Command("show", "Show a playlist with its songs")
	showID  = showCmd.Arg("id", "Playlist ID").Required().Int64()

	// add command
	addCmd = app.Command("add", "Import a YouTube playlist")
	addURL = addCmd.Arg("url", "YouTube playlist URL").Required().String()

	// add-song command
	addSongCmd = app.Command("add-song", "Append a YouTube video to a playlist")
	addSongID  = addSongCmd.Arg("playlist-id", "Playlist ID").Required().Int64()
	addSongURL = addSongCmd.Arg("url", "YouTube video URL").Required().String()

	// delete command
	deleteCmd = app.Command("delete", "Delete a playlist")
	deleteID  = deleteCmd.Arg("id", "Playlist ID").Required().Int64()

	// top command
	topCmd = app.Command("top", "Show the top rated playlists")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := rest.NewClient(*server, 30*time.Second)
	ctx := context.Background()

	var err error
	switch command {
	case listCmd.FullCommand():
		err = list(ctx, client)
	case showCmd.FullCommand():
		err = show(ctx, client, *showID)
	case addCmd.FullCommand():
		err = add(ctx, client, *addURL)
	case addSongCmd.FullCommand():
		err = addSong(ctx, client, *addSongID, *addSongURL)
	case deleteCmd.FullCommand():
		err = deletePlaylist(ctx, client, *deleteID)
	case topCmd.FullCommand():
		err = top(ctx, client)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func list(ctx context.Context, client *rest.Client) error {
	playlists, err := client.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	if len(playlists) == 0 {
		fmt.Println("No playlists.")
		return nil
	}
	for _, p := range playlists {
		rating := "unrated"
		if p.AverageRating != nil {
			rating = fmt.Sprintf("%.1f", *p.AverageRating)
		}
		fmt.Printf("%4d  %-40s  %3d songs  rating: %s\n", p.ID, p.Title, p.SongCount, rating)
	}
	return nil
}

func show(ctx context.Context, client *rest.Client, id int64) error {
	p, err := client.GetPlaylist(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("#%d %s (%s)\n", p.ID, p.Title, p.YouTubeID)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	if p.AverageRating != nil {
		fmt.Printf("Rating: %.1f (%d ratings)\n", *p.AverageRating, p.TotalRatings)
	}
	for i, sg := range p.Songs {
		artist := sg.Artist
		if artist == "" {
			artist = "-"
		}
		fmt.Printf("%3d. %-50s  %-20s  %s\n", i+1, sg.Title, artist, sg.Duration)
	}
	return nil
}

func add(ctx context.Context, client *rest.Client, url string) error {
	p, err := client.AddPlaylist(ctx, url)
	if err != nil {
		return err
	}
	fmt.Printf("Imported playlist #%d: %s\n", p.ID, p.Title)
	return nil
}

func addSong(ctx context.Context, client *rest.Client, playlistID int64, url string) error {
	sg, err := client.AddVideo(ctx, playlistID, url)
	if err != nil {
		return err
	}
	fmt.Printf("Added song #%d: %s\n", sg.ID, sg.Title)
	return nil
}

func deletePlaylist(ctx context.Context, client *rest.Client, id int64) error {
	if err := client.DeletePlaylist(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted playlist #%d\n", id)
	return nil
}

func top(ctx context.Context, client *rest.Client) error {
	top, err := client.TopRated(ctx)
	if err != nil {
		return err
	}

	if len(top) == 0 {
		fmt.Println("No rated playlists yet.")
		return nil
	}
	for i, t := range top {
		fmt.Printf("%d. %-40s  %.1f (%d ratings)\n", i+1, t.Title, t.AverageRating, t.TotalRatings)
	}
	return nil
}

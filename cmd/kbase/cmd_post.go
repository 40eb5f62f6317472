package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Young4Rare/kbase/internal/model"
	"github.com/Young4Rare/kbase/internal/search"
)

var (
	postCategory string
	postTitle    string
	postLink     string
	postEmoji    string
	postTags     []string

	listCategory string
	listTags     []string
	listText     string
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Manage knowledge base posts",
}

var postAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a post",
	Long: `Create a post. Category, title and link are required; the emoji
defaults to ` + model.DefaultEmoji + ` and tags are normalized to trimmed
lowercase.`,
	RunE: runPostAdd,
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts, optionally filtered",
	RunE:  runPostList,
}

var postViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a post and count the view",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostView,
}

var postEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a post",
	Long: `Edit a post. The stored post is replaced: fields left unset keep
their previous value, the view counter restarts and the edit is
recorded in the post history.`,
	Args: cobra.ExactArgs(1),
	RunE: runPostEdit,
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostDelete,
}

var postClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every post",
	RunE:  runPostClear,
}

var postSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search posts by title text and tags",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPostSearch,
}

func init() {
	postAddCmd.Flags().StringVar(&postCategory, "category", "", "Post category (required)")
	postAddCmd.Flags().StringVar(&postTitle, "title", "", "Post title (required)")
	postAddCmd.Flags().StringVar(&postLink, "link", "", "Post link (required)")
	postAddCmd.Flags().StringVar(&postEmoji, "emoji", "", "Post emoji")
	postAddCmd.Flags().StringSliceVar(&postTags, "tags", nil, "Comma separated tags")

	postEditCmd.Flags().StringVar(&postCategory, "category", "", "New category")
	postEditCmd.Flags().StringVar(&postTitle, "title", "", "New title")
	postEditCmd.Flags().StringVar(&postLink, "link", "", "New link")
	postEditCmd.Flags().StringVar(&postEmoji, "emoji", "", "New emoji")
	postEditCmd.Flags().StringSliceVar(&postTags, "tags", nil, "New comma separated tags")

	postListCmd.Flags().StringVar(&listCategory, "category", "", "Only posts in this category")
	postListCmd.Flags().StringSliceVar(&listTags, "tag", nil, "Only posts carrying every given tag")
	postListCmd.Flags().StringVar(&listText, "search", "", "Only posts whose title matches")
}

func runPostAdd(cmd *cobra.Command, args []string) error {
	post, notify, err := application.CreatePost(cmd.Context(), model.Draft{
		Category: postCategory,
		Title:    postTitle,
		Link:     postLink,
		Emoji:    postEmoji,
		Tags:     postTags,
	})
	if err != nil {
		return err
	}
	if !knownCategory(post.Category) {
		fmt.Printf("Note: %q is not a configured category (see config categories).\n", post.Category)
	}
	fmt.Printf("Created post %d: %s %s\n", post.ID, post.Emoji, post.Title)
	if notify {
		fmt.Printf("New content in subscribed category %q\n", post.Category)
	}
	return nil
}

func runPostList(cmd *cobra.Command, args []string) error {
	posts := application.Catalog.List()
	if listCategory != "" {
		kept := posts[:0:0]
		for _, p := range posts {
			if p.Category == listCategory {
				kept = append(kept, p)
			}
		}
		posts = kept
	}
	posts = search.Filter(posts, listText, listTags)
	if len(posts) == 0 {
		fmt.Println("No posts found.")
		return nil
	}
	for _, p := range posts {
		printPostLine(p)
	}
	return nil
}

func runPostView(cmd *cobra.Command, args []string) error {
	id, err := parsePostID(args[0])
	if err != nil {
		return err
	}
	post, ok := application.Catalog.Get(id)
	if !ok {
		return fmt.Errorf("post %d not found", id)
	}
	if _, err := application.Catalog.IncrementViews(cmd.Context(), id); err != nil {
		return err
	}
	post.Views++

	fmt.Printf("%s %s\n", post.Emoji, post.Title)
	fmt.Printf("  Category: %s\n", post.Category)
	fmt.Printf("  Link:     %s\n", post.Link)
	fmt.Printf("  Date:     %s\n", post.Date)
	fmt.Printf("  Views:    %d\n", post.Views)
	if len(post.Tags) > 0 {
		fmt.Printf("  Tags:     %s\n", strings.Join(post.Tags, ", "))
	}
	fmt.Printf("  Created:  %s\n", post.CreatedBy)
	for i, editor := range post.EditedBy {
		when := ""
		if i < len(post.EditedAt) {
			when = " at " + post.EditedAt[i].Format(model.TimestampLayout)
		}
		fmt.Printf("  Edited:   %s%s\n", editor, when)
	}

	related := search.Related(application.Catalog.List(), post.Title)
	if len(related) > 0 {
		fmt.Println("  Related:")
		for _, r := range related {
			fmt.Printf("    %d %s\n", r.ID, r.Title)
		}
	}
	return nil
}

func runPostEdit(cmd *cobra.Command, args []string) error {
	id, err := parsePostID(args[0])
	if err != nil {
		return err
	}
	draft, ok, err := application.EditPost(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("post %d not found", id)
	}

	if postCategory != "" {
		draft.Category = postCategory
	}
	if postTitle != "" {
		draft.Title = postTitle
	}
	if postLink != "" {
		draft.Link = postLink
	}
	if postEmoji != "" {
		draft.Emoji = postEmoji
	}
	if cmd.Flags().Changed("tags") {
		draft.Tags = postTags
	}

	post, _, err := application.CreatePost(cmd.Context(), draft)
	if err != nil {
		return err
	}
	fmt.Printf("Updated post, new id %d: %s %s\n", post.ID, post.Emoji, post.Title)
	return nil
}

func runPostDelete(cmd *cobra.Command, args []string) error {
	id, err := parsePostID(args[0])
	if err != nil {
		return err
	}
	if !confirm(fmt.Sprintf("Delete post %d?", id)) {
		fmt.Println("Aborted.")
		return nil
	}
	ok, err := application.Catalog.Delete(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("Post %d not found.\n", id)
		return nil
	}
	fmt.Printf("Deleted post %d.\n", id)
	return nil
}

func runPostClear(cmd *cobra.Command, args []string) error {
	n := application.Catalog.Len()
	if !confirm(fmt.Sprintf("Delete all %d posts?", n)) {
		fmt.Println("Aborted.")
		return nil
	}
	if err := application.Catalog.DeleteAll(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("Deleted %d posts.\n", n)
	return nil
}

func runPostSearch(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	posts := search.Filter(application.Catalog.List(), text, nil)
	if len(posts) == 0 {
		fmt.Println("No posts found.")
		return nil
	}
	for _, p := range posts {
		printPostLine(p)
	}
	return nil
}

func printPostLine(p model.Post) {
	tags := ""
	if len(p.Tags) > 0 {
		tags = "  [" + strings.Join(p.Tags, ", ") + "]"
	}
	fmt.Printf("%d  %s %s  (%s, %s, %d views)%s\n",
		p.ID, p.Emoji, p.Title, p.Category, p.Date, p.Views, tags)
}

func knownCategory(category string) bool {
	for _, c := range application.Config.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func parsePostID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q", arg)
	}
	return id, nil
}

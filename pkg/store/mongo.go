package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/brewtower/pkg/brew"
)

// Collection names used by MongoStore.
const (
	RecipesCollection     = "recipes"
	IngredientsCollection = "ingredients"
)

// MongoStore implements RecipeStore and, through [MongoStore.Ingredients],
// IngredientStore. Recipes use the filename as _id.
type MongoStore struct {
	client      *mongo.Client
	recipes     *mongo.Collection
	ingredients *mongo.Collection
}

// ConnectMongo dials uri, verifies the connection and ensures indexes.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := NewMongoStore(client.Database(database))
	s.client = client
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStore uses an existing database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		recipes:     db.Collection(RecipesCollection),
		ingredients: db.Collection(IngredientsCollection),
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.ingredients.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "name", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}
	return nil
}

// Close disconnects a client opened by ConnectMongo.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) findRecipes(ctx context.Context, filter any) ([]brew.Recipe, error) {
	cur, err := s.recipes.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	recipes := []brew.Recipe{}
	if err := cur.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *MongoStore) List(ctx context.Context) ([]brew.Recipe, error) {
	return s.findRecipes(ctx, bson.D{})
}

func (s *MongoStore) Get(ctx context.Context, filename string) (*brew.Recipe, error) {
	var r brew.Recipe
	err := s.recipes.FindOne(ctx, bson.D{{Key: "_id", Value: filename}}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, recipeNotFound(filename)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MongoStore) Save(ctx context.Context, r *brew.Recipe) (string, error) {
	filename, err := prepare(r)
	if err != nil {
		return "", err
	}
	_, err = s.recipes.ReplaceOne(ctx, bson.D{{Key: "_id", Value: filename}}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return "", err
	}
	return filename, nil
}

func (s *MongoStore) Delete(ctx context.Context, filename string) error {
	res, err := s.recipes.DeleteOne(ctx, bson.D{{Key: "_id", Value: filename}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return recipeNotFound(filename)
	}
	return nil
}

func (s *MongoStore) Search(ctx context.Context, query string) ([]brew.Recipe, error) {
	if query == "" {
		return s.List(ctx)
	}
	re := bson.D{{Key: "$regex", Value: regexp.QuoteMeta(query)}, {Key: "$options", Value: "i"}}
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "name", Value: re}},
		bson.D{{Key: "brewer", Value: re}},
		bson.D{{Key: "style", Value: re}},
		bson.D{{Key: "tags", Value: re}},
	}}}
	return s.findRecipes(ctx, filter)
}

func (s *MongoStore) SetTags(ctx context.Context, filename, tags string) (*brew.Recipe, error) {
	res, err := s.recipes.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: filename}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "tags", Value: tags}}}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, recipeNotFound(filename)
	}
	return s.Get(ctx, filename)
}

// Ingredients returns the ingredient catalog view of the store.
func (s *MongoStore) Ingredients() IngredientStore { return mongoIngredients{s.ingredients} }

type mongoIngredients struct {
	coll *mongo.Collection
}

func (m mongoIngredients) find(ctx context.Context, filter any) ([]brew.Ingredient, error) {
	cur, err := m.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	ings := []brew.Ingredient{}
	if err := cur.All(ctx, &ings); err != nil {
		return nil, err
	}
	return ings, nil
}

func (m mongoIngredients) List(ctx context.Context) ([]brew.Ingredient, error) {
	return m.find(ctx, bson.D{})
}

func (m mongoIngredients) Search(ctx context.Context, query string, t brew.IngredientType) ([]brew.Ingredient, error) {
	filter := bson.D{{Key: "name", Value: bson.D{{Key: "$regex", Value: regexp.QuoteMeta(query)}, {Key: "$options", Value: "i"}}}}
	if t != "" {
		filter = append(filter, bson.E{Key: "type", Value: t})
	}
	return m.find(ctx, filter)
}

// Add derives the id from the current maximum. Concurrent adds can race for
// the same id; the unique index turns the loser into an error.
func (m mongoIngredients) Add(ctx context.Context, ing brew.Ingredient) (brew.Ingredient, error) {
	ing = ing.WithDefaults()
	if err := ing.Validate(); err != nil {
		return brew.Ingredient{}, err
	}
	var last brew.Ingredient
	err := m.coll.FindOne(ctx, bson.D{}, options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})).Decode(&last)
	if err != nil && err != mongo.ErrNoDocuments {
		return brew.Ingredient{}, err
	}
	ing.ID = last.ID + 1
	if _, err := m.coll.InsertOne(ctx, ing); err != nil {
		return brew.Ingredient{}, err
	}
	return ing, nil
}

func (m mongoIngredients) Update(ctx context.Context, ing brew.Ingredient) (brew.Ingredient, error) {
	if err := ing.Validate(); err != nil {
		return brew.Ingredient{}, err
	}
	res, err := m.coll.ReplaceOne(ctx, bson.D{{Key: "id", Value: ing.ID}}, ing)
	if err != nil {
		return brew.Ingredient{}, err
	}
	if res.MatchedCount == 0 {
		return brew.Ingredient{}, ingredientNotFound(ing.ID)
	}
	return ing, nil
}

func (m mongoIngredients) Delete(ctx context.Context, id int) error {
	res, err := m.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ingredientNotFound(id)
	}
	return nil
}

var (
	_ RecipeStore     = (*MongoStore)(nil)
	_ IngredientStore = mongoIngredients{}
)
